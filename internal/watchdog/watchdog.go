// Package watchdog feeds the system watchdog.
// The real implementation drives a Linux watchdog device.
package watchdog

import "time"

// Watchdog resets the system unless Reset is called within the timeout.
type Watchdog interface {
	Enable(timeout time.Duration) error
	Reset() error
	Disable() error
}

// DefaultDevice is the Linux watchdog device.
const DefaultDevice = "/dev/watchdog"

// Nop is a watchdog that does nothing, used when no device is configured.
type Nop struct{}

func (Nop) Enable(time.Duration) error { return nil }
func (Nop) Reset() error               { return nil }
func (Nop) Disable() error             { return nil }
