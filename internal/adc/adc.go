// Package adc samples the battery divider.
// The real implementation reads an ADS1115 converter over I2C with periph.io.
// The fake implementation returns scripted samples for tests.
package adc

import (
	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/babylight/internal/battery"
)

// Sampler converts the divider tap voltage to raw counts.
type Sampler interface {
	Enable() error
	Disable() error
	// StartConversion begins a conversion and calls done with the raw
	// sample when it completes.
	StartConversion(done func(raw uint16)) error
	Close() error
}

// Counts converts a tap voltage to raw counts on the battery package's
// reference scale, clamped to the converter range.
func Counts(v physic.ElectricPotential) uint16 {
	if v <= 0 {
		return 0
	}
	c := int64(v) * battery.FullScale / int64(battery.RefVolts*float64(physic.Volt))
	if c >= battery.FullScale {
		return battery.FullScale - 1
	}
	return uint16(c)
}
