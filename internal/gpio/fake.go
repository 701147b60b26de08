package gpio

import (
	"sync"

	"github.com/sweeney/babylight/internal/render"
)

// FakeDriver is a test double that records every line write.
type FakeDriver struct {
	mu sync.Mutex

	level    [render.NumChannels]render.Level
	writes   [render.NumChannels]int
	load     bool
	loadSets []bool
	floated  bool
	closed   bool

	// SetError, if set, will be returned by SetChannel.
	SetError error
}

// NewFakeDriver creates a FakeDriver with every line idle.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// SetChannel records the level. Writes after Float are recorded as well.
func (f *FakeDriver) SetChannel(ch render.Channel, lvl render.Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.level[ch] = lvl
	f.writes[ch]++
	return nil
}

// SetLoad records the load state.
func (f *FakeDriver) SetLoad(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load = on
	f.loadSets = append(f.loadSets, on)
	return nil
}

// Float marks every line as floated.
func (f *FakeDriver) Float() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.floated = true
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Level returns the last level written to ch.
func (f *FakeDriver) Level(ch render.Channel) render.Level {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level[ch]
}

// Writes returns how many times ch was written.
func (f *FakeDriver) Writes(ch render.Channel) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[ch]
}

// Load returns the load state.
func (f *FakeDriver) Load() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load
}

// LoadHistory returns every load state set, in order.
func (f *FakeDriver) LoadHistory() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.loadSets...)
}

// Floated reports whether Float was called.
func (f *FakeDriver) Floated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.floated
}

// Closed reports whether Close was called.
func (f *FakeDriver) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
