//go:build linux

package watchdog

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// magicClose is written before closing so the driver stops the timer
// instead of treating the close as a hang.
const magicClose = "V"

// Device drives a Linux watchdog device. Opening the device arms it.
type Device struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// NewDevice returns a watchdog for path. Nothing is opened until Enable.
func NewDevice(path string) *Device {
	return &Device{path: path}
}

// Enable opens the device and sets the timeout, rounded up to whole seconds.
func (d *Device) Enable(timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f != nil {
		return nil
	}
	f, err := os.OpenFile(d.path, os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "open watchdog %s", d.path)
	}
	secs := int((timeout + time.Second - 1) / time.Second)
	if err := unix.IoctlSetPointerInt(int(f.Fd()), unix.WDIOC_SETTIMEOUT, secs); err != nil {
		if rerr := release(f); rerr != nil {
			return errors.Wrapf(err, "set watchdog timeout %ds (%v)", secs, rerr)
		}
		return errors.Wrapf(err, "set watchdog timeout %ds", secs)
	}
	d.f = f
	return nil
}

// Reset feeds the watchdog. It is a no-op while disabled.
func (d *Device) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	return errors.Wrap(unix.IoctlWatchdogKeepalive(int(d.f.Fd())), "watchdog keepalive")
}

// Disable stops the timer and closes the device.
func (d *Device) Disable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	f := d.f
	d.f = nil
	return release(f)
}

// release writes the magic close and closes f. A failed write still closes
// the file; the write error wins.
func release(f *os.File) error {
	if _, err := f.Write([]byte(magicClose)); err != nil {
		if cerr := f.Close(); cerr != nil {
			return errors.Wrapf(err, "write watchdog magic close (close: %v)", cerr)
		}
		return errors.Wrap(err, "write watchdog magic close")
	}
	return errors.Wrap(f.Close(), "close watchdog")
}
