//go:build linux

package gpio

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/babylight/internal/render"
)

const consumer = "babylight"

// RealDriver drives actual hardware using the Linux GPIO character device.
type RealDriver struct {
	chip  *gpiocdev.Chip
	color [render.NumChannels]*gpiocdev.Line
	load  *gpiocdev.Line
}

// NewRealDriver requests every line as an output at its idle level.
func NewRealDriver(cfg Config) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip(cfg.Chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, errors.Wrapf(err, "open gpio chip %s", cfg.Chip)
	}
	d := &RealDriver{chip: chip}

	offsets := [render.NumChannels]int{cfg.Red, cfg.Green, cfg.Blue}
	for ch, offset := range offsets {
		l, err := chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.AsActiveLow)
		if err != nil {
			d.Close()
			return nil, errors.Wrapf(err, "request %s pin %d", render.Channel(ch), offset)
		}
		d.color[ch] = l
	}

	d.load, err = chip.RequestLine(cfg.Load, gpiocdev.AsOutput(0))
	if err != nil {
		d.Close()
		return nil, errors.Wrapf(err, "request load pin %d", cfg.Load)
	}
	return d, nil
}

// SetChannel writes the logical level; the line is configured active-low.
func (d *RealDriver) SetChannel(ch render.Channel, lvl render.Level) error {
	if ch >= render.NumChannels {
		return errors.Errorf("invalid channel %d", ch)
	}
	v := 0
	if lvl == render.Drive {
		v = 1
	}
	if err := d.color[ch].SetValue(v); err != nil {
		return errors.Wrapf(err, "set %s", ch)
	}
	return nil
}

// SetLoad switches the load line.
func (d *RealDriver) SetLoad(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := d.load.SetValue(v); err != nil {
		return errors.Wrap(err, "set load")
	}
	return nil
}

// Float reconfigures every line as an input with bias disabled.
func (d *RealDriver) Float() error {
	var errs []error
	for _, l := range d.lines() {
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithBiasDisabled); err != nil {
			errs = append(errs, errors.Wrapf(err, "float pin %d", l.Offset()))
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("float errors: %v", errs)
	}
	return nil
}

// Close floats and releases every line, then the chip, so the pins are left
// in the power-on default state.
func (d *RealDriver) Close() error {
	var errs []error
	if err := d.Float(); err != nil {
		errs = append(errs, err)
	}
	for _, l := range d.lines() {
		if err := l.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "close pin %d", l.Offset()))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close chip"))
		}
	}

	if len(errs) > 0 {
		return errors.Errorf("close errors: %v", errs)
	}
	return nil
}

func (d *RealDriver) lines() []*gpiocdev.Line {
	var ls []*gpiocdev.Line
	for _, l := range d.color {
		if l != nil {
			ls = append(ls, l)
		}
	}
	if d.load != nil {
		ls = append(ls, d.load)
	}
	return ls
}
