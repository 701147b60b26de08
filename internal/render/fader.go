package render

import "sync/atomic"

// fadeState is one fade in flight. elapsed is advanced only by Step.
type fadeState struct {
	start   Pixel
	target  Pixel
	elapsed uint32
	total   uint32
	done    atomic.Bool
}

// Fader moves the renderer's pixel linearly towards a target.
//
// FadeIn, FadeTo and FadeOut block until the fade completes, calling yield
// while they wait; yield must keep the scheduler and watchdog serviced.
// Step is called once per tick from the render event and advances the fade
// by exactly one tick. Only one fade may be in flight.
type Fader struct {
	r      *Renderer
	yield  func()
	active atomic.Pointer[fadeState]
}

// NewFader returns a fader writing through r.
func NewFader(r *Renderer, yield func()) *Fader {
	return &Fader{r: r, yield: yield}
}

// FadeIn fades from off to target over ticks.
func (f *Fader) FadeIn(target Pixel, ticks uint32) {
	f.r.Set(Off)
	f.FadeTo(target, ticks)
}

// FadeOut fades from the current pixel to off over ticks.
func (f *Fader) FadeOut(ticks uint32) {
	f.FadeTo(Off, ticks)
}

// FadeTo fades from the current pixel to target over ticks. With ticks == 0
// the target is applied immediately.
func (f *Fader) FadeTo(target Pixel, ticks uint32) {
	target = RGB(target.R, target.G, target.B)
	if ticks == 0 {
		f.r.Set(target)
		return
	}
	fs := &fadeState{start: f.r.Pixel(), target: target, total: ticks}
	if prev := f.active.Swap(fs); prev != nil {
		// A superseded fade is released rather than left waiting forever.
		prev.done.Store(true)
	}
	for !fs.done.Load() {
		f.yield()
	}
}

// Step advances the active fade by one tick. It retires the fade when
// elapsed reaches total, leaving the pixel exactly at the target.
func (f *Fader) Step() {
	fs := f.active.Load()
	if fs == nil {
		return
	}
	fs.elapsed++
	if fs.elapsed >= fs.total {
		f.r.Set(fs.target)
		f.active.CompareAndSwap(fs, nil)
		fs.done.Store(true)
		return
	}
	f.r.Set(Pixel{
		R: lerp(fs.start.R, fs.target.R, fs.elapsed, fs.total),
		G: lerp(fs.start.G, fs.target.G, fs.elapsed, fs.total),
		B: lerp(fs.start.B, fs.target.B, fs.elapsed, fs.total),
	})
}

// lerp returns start + (target-start)*elapsed/total, truncated toward start.
func lerp(start, target uint8, elapsed, total uint32) uint8 {
	s := int64(start)
	v := s + (int64(target)-s)*int64(elapsed)/int64(total)
	return uint8(clamp(v, 0, MaxLevel))
}
