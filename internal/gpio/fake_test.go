package gpio

import (
	"errors"
	"testing"

	"github.com/sweeney/babylight/internal/render"
)

var _ Driver = (*FakeDriver)(nil)
var _ Driver = (*RealDriver)(nil)

func TestFakeDriverSetChannel(t *testing.T) {
	f := NewFakeDriver()

	if err := f.SetChannel(render.Green, render.Drive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Level(render.Green) != render.Drive {
		t.Errorf("green: expected drive, got %s", f.Level(render.Green))
	}
	if f.Level(render.Red) != render.Idle {
		t.Errorf("red: expected idle, got %s", f.Level(render.Red))
	}

	f.SetChannel(render.Green, render.Idle)
	if f.Writes(render.Green) != 2 {
		t.Errorf("green writes: expected 2, got %d", f.Writes(render.Green))
	}
}

func TestFakeDriverError(t *testing.T) {
	f := NewFakeDriver()
	f.SetError = errors.New("simulated error")

	err := f.SetChannel(render.Red, render.Drive)
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if f.Writes(render.Red) != 0 {
		t.Errorf("failed write recorded")
	}
}

func TestFakeDriverLoad(t *testing.T) {
	f := NewFakeDriver()
	f.SetLoad(true)
	f.SetLoad(false)

	if f.Load() {
		t.Error("load should be off")
	}
	h := f.LoadHistory()
	if len(h) != 2 || !h[0] || h[1] {
		t.Errorf("load history: got %v", h)
	}
}

func TestFakeDriverFloatAndClose(t *testing.T) {
	f := NewFakeDriver()

	if f.Floated() || f.Closed() {
		t.Error("should not be floated or closed initially")
	}
	f.Float()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Floated() || !f.Closed() {
		t.Error("should be floated and closed")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Chip != "gpiochip0" {
		t.Errorf("chip: got %q", cfg.Chip)
	}
	pins := map[int]bool{cfg.Red: true, cfg.Green: true, cfg.Blue: true, cfg.Load: true}
	if len(pins) != 4 {
		t.Errorf("pins overlap: %+v", cfg)
	}
}
