package render

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// recLines records the last level and write count per channel.
type recLines struct {
	level  [NumChannels]Level
	writes [NumChannels]int
	fail   bool
}

func (l *recLines) SetChannel(ch Channel, lvl Level) error {
	if l.fail {
		return errors.New("line busy")
	}
	l.level[ch] = lvl
	l.writes[ch]++
	return nil
}

func TestRGBClamps(t *testing.T) {
	got := RGB(200, 63, 64)
	want := Pixel{R: 63, G: 63, B: 63}
	if got != want {
		t.Errorf("RGB: got %+v, want %+v", got, want)
	}
}

func TestSetClamps(t *testing.T) {
	r := NewRenderer(&recLines{}, zerolog.Nop())
	r.Set(Pixel{R: 255, G: 10, B: 0})
	if got := r.Pixel(); got != (Pixel{R: 63, G: 10, B: 0}) {
		t.Errorf("Pixel: got %+v", got)
	}
}

func TestThresholdVisitsEveryLevelOncePerCycle(t *testing.T) {
	r := NewRenderer(&recLines{}, zerolog.Nop())
	seen := map[uint8]int{}
	var order []uint8
	for i := 0; i < MaxLevel; i++ {
		th := r.Threshold()
		seen[th]++
		order = append(order, th)
		r.Render()
	}
	for v := uint8(0); v < MaxLevel; v++ {
		if seen[v] != 1 {
			t.Errorf("threshold %d visited %d times", v, seen[v])
		}
	}
	want := []uint8{0, 61, 59, 57}
	for i, w := range want {
		if order[i] != w {
			t.Errorf("threshold[%d]: got %d, want %d", i, order[i], w)
		}
	}
	if r.Threshold() != 0 {
		t.Errorf("threshold after one cycle: got %d, want 0", r.Threshold())
	}
}

func TestDutyCycleMatchesIntensity(t *testing.T) {
	for v := 0; v <= MaxLevel; v++ {
		lines := &recLines{}
		r := NewRenderer(lines, zerolog.Nop())
		r.Set(Pixel{R: uint8(v)})

		on := 0
		for i := 0; i < MaxLevel; i++ {
			r.Render()
			if lines.level[Red] == Drive {
				on++
			}
		}
		want := v
		if want > MaxLevel-1 {
			want = MaxLevel - 1
		}
		if on != want {
			t.Errorf("level %d: got %d on-ticks per cycle, want %d", v, on, want)
		}
		if lines.level[Green] != Idle || lines.level[Blue] != Idle {
			t.Errorf("level %d: dark channels driven", v)
		}
	}
}

func TestRenderWritesOnlyChanges(t *testing.T) {
	lines := &recLines{}
	r := NewRenderer(lines, zerolog.Nop())
	r.Set(Pixel{R: MaxLevel})
	for i := 0; i < 10*MaxLevel; i++ {
		r.Render()
	}
	// Full red turns on at threshold 61 of every cycle and off at threshold 0
	// of every cycle but the first.
	if lines.writes[Red] != 19 {
		t.Errorf("red writes: got %d, want 19", lines.writes[Red])
	}
	if lines.writes[Green] != 0 || lines.writes[Blue] != 0 {
		t.Errorf("dark channels written: green=%d blue=%d", lines.writes[Green], lines.writes[Blue])
	}
}

func TestRenderRetriesFailedWrite(t *testing.T) {
	lines := &recLines{fail: true}
	r := NewRenderer(lines, zerolog.Nop())
	r.Set(Pixel{B: MaxLevel})
	r.Render()
	r.Render()
	lines.fail = false
	r.Render()
	if lines.level[Blue] != Drive {
		t.Error("blue not driven after write recovered")
	}
}
