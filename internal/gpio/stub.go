//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/babylight/internal/render"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(Config) (*RealDriver, error) {
	return nil, errUnsupported
}

// SetChannel is not implemented on non-Linux platforms.
func (d *RealDriver) SetChannel(render.Channel, render.Level) error {
	return errUnsupported
}

// SetLoad is not implemented on non-Linux platforms.
func (d *RealDriver) SetLoad(bool) error {
	return errUnsupported
}

// Float is not implemented on non-Linux platforms.
func (d *RealDriver) Float() error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}
