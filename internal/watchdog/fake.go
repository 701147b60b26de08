package watchdog

import (
	"sync"
	"time"
)

// Fake is a test double that counts resets while enabled.
type Fake struct {
	mu      sync.Mutex
	enabled bool
	timeout time.Duration
	resets  int
	history []bool
}

// Enable records the timeout and marks the watchdog enabled.
func (f *Fake) Enable(timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = true
	f.timeout = timeout
	f.history = append(f.history, true)
	return nil
}

// Reset counts a reset if enabled.
func (f *Fake) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enabled {
		f.resets++
	}
	return nil
}

// Disable marks the watchdog disabled.
func (f *Fake) Disable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = false
	f.history = append(f.history, false)
	return nil
}

// Enabled reports whether the watchdog is enabled.
func (f *Fake) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

// Timeout returns the last timeout passed to Enable.
func (f *Fake) Timeout() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timeout
}

// Resets returns the number of resets while enabled.
func (f *Fake) Resets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

// History returns every enable (true) and disable (false), in order.
func (f *Fake) History() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.history...)
}
