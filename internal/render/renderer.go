package render

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Renderer owns the single live pixel.
//
// The pixel is written from the idle loop (fades) and read from tick context
// (Render). It is packed into one atomic word so a reader never observes a
// half-updated color.
type Renderer struct {
	lines     Lines
	log       zerolog.Logger
	pixel     atomic.Uint32
	threshold uint8             // tick context only
	driven    [NumChannels]bool // tick context only
}

// NewRenderer returns a renderer with all channels off. Output errors are
// logged through a sampler since Render runs at tick rate.
func NewRenderer(lines Lines, log zerolog.Logger) *Renderer {
	return &Renderer{
		lines: lines,
		log:   log.Sample(&zerolog.BasicSampler{N: 10000}),
	}
}

// Pixel returns the current pixel.
func (r *Renderer) Pixel() Pixel {
	return unpack(r.pixel.Load())
}

// Set replaces the current pixel.
func (r *Renderer) Set(p Pixel) {
	r.pixel.Store(RGB(p.R, p.G, p.B).pack())
}

// Threshold returns the threshold the next Render call compares against.
func (r *Renderer) Threshold() uint8 {
	return r.threshold
}

// Render is the per-tick software grayscale step. At threshold 0 every line
// idles; otherwise a line is driven iff its channel is >= the threshold. Only
// lines whose decision changed are written.
//
// The threshold descends by ThresholdStep modulo MaxLevel, visiting each of
// 0..MaxLevel-1 once per cycle (0, 61, 59, ..., 1, 62, 60, ..., 2).
func (r *Renderer) Render() {
	p := r.Pixel()
	t := r.threshold
	for ch := Red; ch < NumChannels; ch++ {
		on := t != 0 && p.Channel(ch) >= t
		if on == r.driven[ch] {
			continue
		}
		lvl := Idle
		if on {
			lvl = Drive
		}
		if err := r.lines.SetChannel(ch, lvl); err != nil {
			r.log.Warn().Err(err).Str("channel", ch.String()).Msg("set channel failed")
			continue
		}
		r.driven[ch] = on
	}
	if t < ThresholdStep {
		t += MaxLevel
	}
	r.threshold = t - ThresholdStep
}
