package sched

import "sync/atomic"

// Seconds is the elapsed-seconds counter. It wraps at 16 bits; compare
// values only through Since.
type Seconds uint16

// Since returns s - mark, correct across one wrap of the counter.
func (s Seconds) Since(mark Seconds) Seconds {
	return s - mark
}

// Clock counts ticks and whole seconds. Advance is called from tick
// context; everything else may be called from the idle loop.
type Clock struct {
	rate    uint32
	sub     uint32 // tick context only
	ticks   atomic.Uint32
	seconds atomic.Uint32
}

// NewClock returns a clock that advances one second every tb ticks.
func NewClock(tb TimeBase) *Clock {
	rate := uint32(tb)
	if rate == 0 {
		rate = 1
	}
	return &Clock{rate: rate}
}

// Advance accounts for one tick.
func (c *Clock) Advance() {
	c.ticks.Add(1)
	c.sub++
	if c.sub >= c.rate {
		c.sub = 0
		c.seconds.Add(1)
	}
}

// Ticks returns the free-running tick counter.
func (c *Clock) Ticks() uint32 {
	return c.ticks.Load()
}

// TicksSince returns the ticks elapsed since mark, wrap-safe.
func (c *Clock) TicksSince(mark uint32) uint32 {
	return c.ticks.Load() - mark
}

// Seconds returns the elapsed-seconds counter.
func (c *Clock) Seconds() Seconds {
	return Seconds(c.seconds.Load())
}

// ResetSeconds sets the elapsed-seconds counter back to zero.
func (c *Clock) ResetSeconds() {
	c.seconds.Store(0)
}
