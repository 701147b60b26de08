//go:build !linux

package watchdog

import (
	"errors"
	"time"
)

// Device is not available on non-Linux platforms.
type Device struct{}

// NewDevice returns a device whose Enable always fails.
func NewDevice(string) *Device {
	return &Device{}
}

// Enable is not implemented on non-Linux platforms.
func (d *Device) Enable(time.Duration) error {
	return errors.New("watchdog: not supported on this platform (requires Linux)")
}

// Reset is a no-op on non-Linux platforms.
func (d *Device) Reset() error { return nil }

// Disable is a no-op on non-Linux platforms.
func (d *Device) Disable() error { return nil }
