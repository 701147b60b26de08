// Package cpu emulates the microcontroller's timer interrupt and power modes
// on a Linux host.
package cpu

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/babylight/internal/sched"
)

// Ticker delivers the timer interrupt at a fixed rate. The interrupt
// routine runs on the Run goroutine, one tick at a time.
type Ticker struct {
	period time.Duration

	isrMu   sync.Mutex // held while the interrupt routine runs
	stopped atomic.Bool
	stop    chan struct{}
	once    sync.Once

	wakeMu sync.Mutex
	wake   chan struct{} // closed and replaced after every tick
	ticks  atomic.Uint64
}

// NewTicker returns a ticker firing rate times per second.
func NewTicker(rate sched.TimeBase) *Ticker {
	if rate == 0 {
		rate = 1
	}
	return &Ticker{
		period: time.Second / time.Duration(rate),
		stop:   make(chan struct{}),
		wake:   make(chan struct{}),
	}
}

// Run calls isr once per tick until ctx is cancelled or Stop is called.
func (t *Ticker) Run(ctx context.Context, isr func()) error {
	tk := time.NewTicker(t.period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.stop:
			return nil
		case <-tk.C:
			t.isrMu.Lock()
			if t.stopped.Load() {
				t.isrMu.Unlock()
				return nil
			}
			isr()
			t.isrMu.Unlock()
			t.ticks.Add(1)
			t.broadcast()
		}
	}
}

func (t *Ticker) broadcast() {
	t.wakeMu.Lock()
	close(t.wake)
	t.wake = make(chan struct{})
	t.wakeMu.Unlock()
}

// Wait blocks until the next tick has been delivered. Once the ticker is
// stopped it blocks forever, like a core sleeping with interrupts off.
func (t *Ticker) Wait() {
	t.wakeMu.Lock()
	ch := t.wake
	t.wakeMu.Unlock()
	<-ch
}

// Stop disables further ticks and waits for an interrupt routine in flight
// to return. It is safe to call more than once.
func (t *Ticker) Stop() {
	t.stopped.Store(true)
	// Taking the lock waits out an isr in flight.
	t.isrMu.Lock()
	t.isrMu.Unlock()
	t.once.Do(func() { close(t.stop) })
}

// Ticks returns the number of ticks delivered.
func (t *Ticker) Ticks() uint64 {
	return t.ticks.Load()
}
