package adc

import (
	"errors"
	"sync"
)

// FakeSampler is a test double that returns scripted samples.
type FakeSampler struct {
	mu sync.Mutex

	// Samples contains scripted raw values. Each conversion consumes the
	// next one; the last is repeated once exhausted.
	Samples []uint16

	// Deferred holds completions until Complete is called.
	Deferred bool

	// StartError, if set, will be returned by StartConversion.
	StartError error

	index       int
	enabled     bool
	conversions int
	pending     func(uint16)
	closed      bool
}

// NewFakeSampler creates a FakeSampler with the given samples.
func NewFakeSampler(samples ...uint16) *FakeSampler {
	return &FakeSampler{Samples: samples}
}

// Enable marks the sampler enabled.
func (f *FakeSampler) Enable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = true
	return nil
}

// Disable marks the sampler disabled.
func (f *FakeSampler) Disable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = false
	return nil
}

// StartConversion completes immediately with the next sample, or holds the
// completion for Complete when Deferred is set.
func (f *FakeSampler) StartConversion(done func(raw uint16)) error {
	f.mu.Lock()
	if f.StartError != nil {
		f.mu.Unlock()
		return f.StartError
	}
	if !f.enabled {
		f.mu.Unlock()
		return errors.New("adc disabled")
	}
	f.conversions++
	if f.Deferred {
		f.pending = done
		f.mu.Unlock()
		return nil
	}
	raw := f.next()
	f.mu.Unlock()
	done(raw)
	return nil
}

// Complete delivers a held conversion. It reports whether one was pending.
func (f *FakeSampler) Complete() bool {
	f.mu.Lock()
	done := f.pending
	f.pending = nil
	var raw uint16
	if done != nil {
		raw = f.next()
	}
	f.mu.Unlock()
	if done == nil {
		return false
	}
	done(raw)
	return true
}

func (f *FakeSampler) next() uint16 {
	if len(f.Samples) == 0 {
		return 0
	}
	raw := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return raw
}

// Enabled reports whether the sampler is enabled.
func (f *FakeSampler) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

// Conversions returns how many conversions were started.
func (f *FakeSampler) Conversions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conversions
}

// Close marks the sampler closed.
func (f *FakeSampler) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakeSampler) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
