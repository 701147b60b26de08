package sched

import (
	"github.com/rs/zerolog"

	"github.com/sweeney/babylight/internal/irq"
)

// record is one slot of the event table.
type record struct {
	used      bool
	id        EventID
	prio      Priority
	interval  uint32 // 0 = one-shot
	countdown uint32 // 0 = parked (one-shot awaiting Pump)
	state     State
	due       bool
	running   bool
	gen       uint32
}

// Scheduler holds the fixed-capacity event table.
//
// The table is shared between Sync (tick context) and Pump/Register (idle
// loop). Every read-modify-write of a slot happens inside the irq guard;
// callbacks are always invoked outside it.
type Scheduler struct {
	guard   irq.Guard
	handler Handler
	log     zerolog.Logger
	tb      TimeBase
	slots   [MaxEvents]record
}

// New creates an empty scheduler dispatching to h.
func New(h Handler, log zerolog.Logger) *Scheduler {
	return &Scheduler{handler: h, log: log}
}

// SetTimeBase records the tick frequency. Call once, before registering.
func (s *Scheduler) SetTimeBase(tb TimeBase) {
	st := s.guard.Disable()
	s.tb = tb
	s.guard.Restore(st)
}

// TimeBase returns the configured tick frequency.
func (s *Scheduler) TimeBase() TimeBase {
	st := s.guard.Disable()
	tb := s.tb
	s.guard.Restore(st)
	return tb
}

// Register inserts or replaces a normal-priority event. The callback is
// deferred to Pump. An interval of 0 makes the event one-shot.
func (s *Scheduler) Register(id EventID, interval uint32, state State) error {
	return s.register(id, Normal, interval, state)
}

// RegisterHighPriority inserts or replaces an event that runs inline in Sync.
func (s *Scheduler) RegisterHighPriority(id EventID, interval uint32, state State) error {
	return s.register(id, High, interval, state)
}

func (s *Scheduler) register(id EventID, prio Priority, interval uint32, state State) error {
	st := s.guard.Disable()
	if s.tb == 0 {
		s.guard.Restore(st)
		return ErrNoTimeBase
	}
	slot := s.find(id)
	if slot < 0 {
		slot = s.free()
	}
	if slot < 0 {
		s.guard.Restore(st)
		s.log.Debug().Str("event", id.String()).Msg("event table full, registration dropped")
		return ErrCapacity
	}
	r := &s.slots[slot]
	countdown := interval
	if countdown == 0 {
		countdown = 1
	}
	*r = record{
		used:      true,
		id:        id,
		prio:      prio,
		interval:  interval,
		countdown: countdown,
		state:     state,
		gen:       r.gen + 1,
	}
	s.guard.Restore(st)
	return nil
}

// Unregister removes the event. It is a no-op if the event is absent.
func (s *Scheduler) Unregister(id EventID) {
	st := s.guard.Disable()
	if slot := s.find(id); slot >= 0 {
		s.slots[slot] = record{gen: s.slots[slot].gen + 1}
	}
	s.guard.Restore(st)
}

// UnregisterAll clears the table.
func (s *Scheduler) UnregisterAll() {
	st := s.guard.Disable()
	for i := range s.slots {
		s.slots[i] = record{gen: s.slots[i].gen + 1}
	}
	s.guard.Restore(st)
}

// Registered reports whether id currently occupies a slot.
func (s *Scheduler) Registered(id EventID) bool {
	st := s.guard.Disable()
	ok := s.find(id) >= 0
	s.guard.Restore(st)
	return ok
}

// Len returns the number of occupied slots.
func (s *Scheduler) Len() int {
	st := s.guard.Disable()
	n := 0
	for i := range s.slots {
		if s.slots[i].used {
			n++
		}
	}
	s.guard.Restore(st)
	return n
}

// Sync advances every countdown by one tick. Expired high-priority events
// run before Sync returns; expired normal events are marked due for Pump.
// Periodic countdowns reload here, so a slow Pump never shifts the period.
func (s *Scheduler) Sync() {
	var fire [MaxEvents]struct {
		id    EventID
		state State
	}
	n := 0

	st := s.guard.Disable()
	for i := range s.slots {
		r := &s.slots[i]
		if !r.used || r.countdown == 0 {
			continue
		}
		r.countdown--
		if r.countdown != 0 {
			continue
		}
		r.countdown = r.interval
		if r.prio == High {
			fire[n].id, fire[n].state = r.id, r.state
			n++
			if r.interval == 0 {
				*r = record{gen: r.gen + 1}
			}
			continue
		}
		r.due = true
	}
	s.guard.Restore(st)

	for i := 0; i < n; i++ {
		s.handler.Dispatch(fire[i].id, fire[i].state)
	}
}

// Pump runs every due normal-priority callback. It must never be called
// from tick context. A callback that is still running (Pump re-entered from
// inside it) is skipped and runs again once it has returned.
func (s *Scheduler) Pump() {
	for i := range s.slots {
		st := s.guard.Disable()
		r := &s.slots[i]
		if !r.used || !r.due || r.running {
			s.guard.Restore(st)
			continue
		}
		r.due = false
		id, state, gen := r.id, r.state, r.gen
		if r.interval == 0 {
			*r = record{gen: r.gen + 1}
		} else {
			r.running = true
		}
		s.guard.Restore(st)

		s.handler.Dispatch(id, state)

		st = s.guard.Disable()
		if r.gen == gen {
			r.running = false
		}
		s.guard.Restore(st)
	}
}

func (s *Scheduler) find(id EventID) int {
	for i := range s.slots {
		if s.slots[i].used && s.slots[i].id == id {
			return i
		}
	}
	return -1
}

func (s *Scheduler) free() int {
	for i := range s.slots {
		if !s.slots[i].used {
			return i
		}
	}
	return -1
}
