// Package render drives a tri-color light without hardware PWM.
//
// The Renderer is called once per tick and switches each output line on or
// off against a descending brightness threshold, so the average duty cycle of
// a line follows its channel intensity. The Fader moves the pixel from one
// color to another, one step per tick.
package render

import "golang.org/x/exp/constraints"

// MaxLevel is the brightness ceiling of a channel. It is also the length of
// one threshold cycle.
const MaxLevel = 63

// ThresholdStep is how far the threshold descends per tick.
const ThresholdStep = 2

// Channel is one of the three color lines.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
	NumChannels
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// Level is the logical state of an output line. Polarity is the driver's concern.
type Level uint8

const (
	Idle Level = iota
	Drive
)

func (l Level) String() string {
	if l == Drive {
		return "drive"
	}
	return "idle"
}

// Lines sets one of the three output lines.
type Lines interface {
	SetChannel(ch Channel, lvl Level) error
}

// Pixel is a color with channels in 0..MaxLevel.
type Pixel struct {
	R, G, B uint8
}

// Off is the all-dark pixel.
var Off = Pixel{}

// RGB returns a pixel with every channel clamped to MaxLevel.
func RGB(r, g, b uint8) Pixel {
	return Pixel{
		R: clamp(r, 0, MaxLevel),
		G: clamp(g, 0, MaxLevel),
		B: clamp(b, 0, MaxLevel),
	}
}

// Channel returns the intensity of ch.
func (p Pixel) Channel(ch Channel) uint8 {
	switch ch {
	case Red:
		return p.R
	case Green:
		return p.G
	case Blue:
		return p.B
	default:
		return 0
	}
}

func (p Pixel) pack() uint32 {
	return uint32(p.R) | uint32(p.G)<<8 | uint32(p.B)<<16
}

func unpack(v uint32) Pixel {
	return Pixel{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16)}
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
