package cpu

import "time"

// HaltWake is the period of the watchdog-independent wake source that
// briefly interrupts Halt.
const HaltWake = 8 * time.Second

// Host implements the power modes on top of a Ticker.
type Host struct {
	ticker *Ticker
	halt   time.Duration
	start  time.Time
}

// NewHost returns power modes bound to t.
func NewHost(t *Ticker) *Host {
	return &Host{ticker: t, halt: HaltWake, start: time.Now()}
}

// Idle sleeps until the next tick.
func (h *Host) Idle() {
	h.ticker.Wait()
}

// IdleUntilSample sleeps until the next tick. Conversions complete on their
// own goroutine, so the caller rechecks after every tick.
func (h *Host) IdleUntilSample() {
	h.ticker.Wait()
}

// DisableInterrupts stops the tick source.
func (h *Host) DisableInterrupts() {
	h.ticker.Stop()
}

// Halt sleeps until the wake source fires.
func (h *Host) Halt() {
	time.Sleep(h.halt)
}

// Count returns the low byte of a free-running microsecond counter.
func (h *Host) Count() uint8 {
	return uint8(time.Since(h.start) / time.Microsecond)
}
