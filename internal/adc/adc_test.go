package adc

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/babylight/internal/battery"
)

var _ Sampler = (*FakeSampler)(nil)
var _ Sampler = (*RealSampler)(nil)

func TestCounts(t *testing.T) {
	tests := []struct {
		v    physic.ElectricPotential
		want uint16
	}{
		{0, 0},
		{-5 * physic.MilliVolt, 0},
		{550 * physic.MilliVolt, 512},
		{1100 * physic.MilliVolt, 1023},
		{3 * physic.Volt, 1023},
	}
	for _, tc := range tests {
		if got := Counts(tc.v); got != tc.want {
			t.Errorf("Counts(%s): got %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestCountsMatchesBatteryScale(t *testing.T) {
	// A full cell seen through the divider lands in the full band.
	cell := 1.45
	tap := physic.ElectricPotential(cell * battery.R2 / (battery.R1 + battery.R2) * float64(physic.Volt))
	if got := battery.Classify(Counts(tap)); got != battery.Full {
		t.Errorf("1.45 V cell: got %s, want full", got)
	}
}

func TestFakeSamplerSequence(t *testing.T) {
	f := NewFakeSampler(900, 600)
	f.Enable()

	var got []uint16
	record := func(raw uint16) { got = append(got, raw) }
	for i := 0; i < 3; i++ {
		if err := f.StartConversion(record); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(got) != 3 || got[0] != 900 || got[1] != 600 || got[2] != 600 {
		t.Errorf("samples: got %v, want [900 600 600]", got)
	}
	if f.Conversions() != 3 {
		t.Errorf("conversions: got %d, want 3", f.Conversions())
	}
}

func TestFakeSamplerDisabled(t *testing.T) {
	f := NewFakeSampler(900)
	if err := f.StartConversion(func(uint16) {}); err == nil {
		t.Error("expected error when disabled")
	}
	f.Enable()
	f.Disable()
	if f.Enabled() {
		t.Error("should be disabled")
	}
}

func TestFakeSamplerDeferred(t *testing.T) {
	f := NewFakeSampler(700)
	f.Deferred = true
	f.Enable()

	var got uint16
	f.StartConversion(func(raw uint16) { got = raw })
	if got != 0 {
		t.Fatal("deferred conversion completed early")
	}
	if !f.Complete() {
		t.Fatal("Complete: expected pending conversion")
	}
	if got != 700 {
		t.Errorf("sample: got %d, want 700", got)
	}
	if f.Complete() {
		t.Error("Complete: nothing should be pending")
	}
}

func TestFakeSamplerStartError(t *testing.T) {
	f := NewFakeSampler(700)
	f.Enable()
	f.StartError = errors.New("simulated error")
	if err := f.StartConversion(func(uint16) {}); err == nil {
		t.Error("expected error to be returned")
	}
}
