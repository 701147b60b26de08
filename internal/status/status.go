// Package status provides a thread-safe status tracker for the babylight daemon.
// The sequencer reports into it; the daemon logs snapshots of it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/babylight/internal/battery"
	"github.com/sweeney/babylight/internal/phase"
)

// Config contains daemon configuration for display.
type Config struct {
	TickRate   uint32
	Chip       string
	Pins       [4]int // red, green, blue, load
	I2CBus     string
	ADCChannel int
	Watchdog   string // device path (empty = disabled)
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Phase        phase.Phase
	PhaseEntered time.Time
	Transitions  int
	Sampled      bool
	Sample       uint16
	Band         battery.Band
	Readings     int
	StartTime    time.Time
	Now          time.Time
	Config       Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// InPhase returns how long the current phase has run.
func (s Snapshot) InPhase() time.Duration {
	if s.PhaseEntered.IsZero() {
		return 0
	}
	return s.Now.Sub(s.PhaseEntered)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	now  func() time.Time
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		now: time.Now,
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetPhase records a phase transition.
// Called from the sequencer's OnPhase hook.
func (t *Tracker) SetPhase(p phase.Phase) {
	now := t.now()
	t.mu.Lock()
	t.snap.Phase = p
	t.snap.PhaseEntered = now
	t.snap.Transitions++
	t.mu.Unlock()
}

// SetBattery records a classified sample.
// Called from the sequencer's OnBattery hook.
func (t *Tracker) SetBattery(raw uint16, band battery.Band) {
	t.mu.Lock()
	t.snap.Sampled = true
	t.snap.Sample = raw
	t.snap.Band = band
	t.snap.Readings++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
