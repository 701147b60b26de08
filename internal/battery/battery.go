// Package battery classifies the battery voltage into display bands.
//
// The cell is measured through a resistor divider against the sampler's
// internal reference; band thresholds are raw sample counts.
package battery

import (
	"math"

	"github.com/sweeney/babylight/internal/render"
)

// Divider and reference constants of the measurement circuit.
const (
	R1        = 68000.0  // ohms, cell to tap
	R2        = 150000.0 // ohms, tap to ground
	RefVolts  = 1.10
	FullScale = 1024 // 10-bit sampler
)

// Band is a discrete battery-charge category.
type Band uint8

const (
	Critical Band = iota
	Low
	OK
	Good
	New
	Full
	numBands
)

func (b Band) String() string {
	switch b {
	case Critical:
		return "critical"
	case Low:
		return "low"
	case OK:
		return "ok"
	case Good:
		return "good"
	case New:
		return "new"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// cellVolts is the cell voltage at the lower bound of each band.
var cellVolts = [numBands]float64{
	Critical: 0,
	Low:      0.80,
	OK:       1.00,
	Good:     1.20,
	New:      1.30,
	Full:     1.40,
}

// thresholds holds the lower bound of each band in raw counts: the smallest
// whole sample at or above the band's exact count.
var thresholds = func() (t [numBands]uint16) {
	for b, v := range cellVolts {
		t[b] = uint16(math.Min(math.Ceil(counts(v)), FullScale-1))
	}
	return t
}()

var colors = [numBands]render.Pixel{
	Critical: {R: 60},
	Low:      {R: 60, G: 28},
	OK:       {R: 60, G: 60},
	Good:     {G: 60},
	New:      {G: 30, B: 60},
	Full:     {B: 60},
}

// Threshold returns the lowest raw sample classified as b.
func Threshold(b Band) uint16 {
	if b >= numBands {
		return 0
	}
	return thresholds[b]
}

// Classify returns the highest band whose threshold raw reaches. A zero
// sample (no conversion yet) is Critical.
func Classify(raw uint16) Band {
	for b := Full; b > Critical; b-- {
		if raw >= thresholds[b] {
			return b
		}
	}
	return Critical
}

// ColorFor returns the display color of b.
func ColorFor(b Band) render.Pixel {
	if b >= numBands {
		return colors[Critical]
	}
	return colors[b]
}

// counts is the exact, unquantized sample for a cell voltage.
func counts(cell float64) float64 {
	tap := cell * R2 / (R1 + R2)
	return tap / RefVolts * FullScale
}

// Raw converts a cell voltage to the sample the divider produces, truncated.
func Raw(cell float64) uint16 {
	v := counts(cell)
	if v <= 0 {
		return 0
	}
	if v >= FullScale-1 {
		return FullScale - 1
	}
	return uint16(v)
}

// CellVolts converts a raw sample back to the cell voltage.
func CellVolts(raw uint16) float64 {
	return float64(raw) / FullScale * RefVolts * (R1 + R2) / R2
}
