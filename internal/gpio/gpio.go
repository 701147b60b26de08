// Package gpio drives the light's output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/babylight/internal/render"

// Driver sets the color lines and the load switch.
type Driver interface {
	// SetChannel drives or idles one color line. The color lines are wired
	// active-low: driving a line pulls it low.
	SetChannel(ch render.Channel, lvl render.Level) error

	// SetLoad switches the load line.
	SetLoad(on bool) error

	// Float reconfigures every line as an input with bias disabled, the
	// lowest-power state for power-down.
	Float() error

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	PinRed   = 17
	PinGreen = 27
	PinBlue  = 22
	PinLoad  = 23
)

// Config selects the chip and line offsets.
type Config struct {
	Chip  string
	Red   int
	Green int
	Blue  int
	Load  int
}

// DefaultConfig returns the Raspberry Pi wiring.
func DefaultConfig() Config {
	return Config{
		Chip:  "gpiochip0",
		Red:   PinRed,
		Green: PinGreen,
		Blue:  PinBlue,
		Load:  PinLoad,
	}
}
