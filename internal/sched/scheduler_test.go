package sched

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// countingHandler records every dispatch.
type countingHandler struct {
	calls  map[EventID]int
	states []State
	onCall func(id EventID)
}

func newCountingHandler() *countingHandler {
	return &countingHandler{calls: map[EventID]int{}}
}

func (h *countingHandler) Dispatch(id EventID, state State) {
	h.calls[id]++
	h.states = append(h.states, state)
	if h.onCall != nil {
		h.onCall(id)
	}
}

func newTestScheduler(h Handler) *Scheduler {
	s := New(h, zerolog.Nop())
	s.SetTimeBase(100)
	return s
}

// tick runs one Sync followed by one Pump, like a tick followed by an idle-loop pass.
func tick(s *Scheduler, n int) {
	for i := 0; i < n; i++ {
		s.Sync()
		s.Pump()
	}
}

func TestRegisterBeforeTimeBase(t *testing.T) {
	s := New(newCountingHandler(), zerolog.Nop())
	if err := s.Register(EventBattery, 10, 0); !errors.Is(err, ErrNoTimeBase) {
		t.Errorf("Register: got %v, want ErrNoTimeBase", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
}

func TestPeriodicFiresFloorNOverI(t *testing.T) {
	for _, tc := range []struct {
		interval uint32
		ticks    int
	}{
		{1, 10}, {3, 10}, {7, 100}, {50, 100}, {50, 149}, {100, 99},
	} {
		h := newCountingHandler()
		s := newTestScheduler(h)
		if err := s.Register(EventBattery, tc.interval, 0); err != nil {
			t.Fatalf("Register: %v", err)
		}
		tick(s, tc.ticks)
		want := tc.ticks / int(tc.interval)
		if got := h.calls[EventBattery]; got != want {
			t.Errorf("interval %d after %d ticks: got %d calls, want %d", tc.interval, tc.ticks, got, want)
		}
	}
}

func TestHighPriorityRunsInSync(t *testing.T) {
	h := newCountingHandler()
	s := newTestScheduler(h)
	s.RegisterHighPriority(EventRender, 1, 7)

	for i := 0; i < 5; i++ {
		s.Sync()
	}
	if got := h.calls[EventRender]; got != 5 {
		t.Errorf("render calls without Pump: got %d, want 5", got)
	}
	if h.states[0] != 7 {
		t.Errorf("state: got %d, want 7", h.states[0])
	}
}

func TestNormalPriorityDeferredToPump(t *testing.T) {
	h := newCountingHandler()
	s := newTestScheduler(h)
	s.Register(EventBattery, 2, 0)

	s.Sync()
	s.Sync()
	if got := h.calls[EventBattery]; got != 0 {
		t.Fatalf("normal event ran in Sync: %d calls", got)
	}
	s.Pump()
	if got := h.calls[EventBattery]; got != 1 {
		t.Errorf("after Pump: got %d calls, want 1", got)
	}
	s.Pump()
	if got := h.calls[EventBattery]; got != 1 {
		t.Errorf("second Pump without tick: got %d calls, want 1", got)
	}
}

func TestOneShotDeregisters(t *testing.T) {
	h := newCountingHandler()
	s := newTestScheduler(h)
	s.Register(EventBattery, 0, 0)
	s.RegisterHighPriority(EventRender, 0, 0)

	tick(s, 5)
	if h.calls[EventBattery] != 1 || h.calls[EventRender] != 1 {
		t.Errorf("one-shot calls: got battery=%d render=%d, want 1 each",
			h.calls[EventBattery], h.calls[EventRender])
	}
	if s.Len() != 0 {
		t.Errorf("Len after one-shots: got %d, want 0", s.Len())
	}
}

func TestReRegisterReplaces(t *testing.T) {
	h := newCountingHandler()
	s := newTestScheduler(h)
	s.Register(EventBattery, 10, 1)
	s.Register(EventBattery, 5, 2)

	if s.Len() != 1 {
		t.Fatalf("Len after double register: got %d, want 1", s.Len())
	}
	tick(s, 10)
	if got := h.calls[EventBattery]; got != 2 {
		t.Errorf("calls with replaced interval 5: got %d, want 2", got)
	}
	if h.states[0] != 2 {
		t.Errorf("state: got %d, want 2", h.states[0])
	}

	s.Unregister(EventBattery)
	if s.Registered(EventBattery) {
		t.Error("event still registered after single unregister")
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
}

func TestCapacity(t *testing.T) {
	s := newTestScheduler(newCountingHandler())
	for i := 0; i < MaxEvents; i++ {
		if err := s.Register(EventID(10+i), 1, 0); err != nil {
			t.Fatalf("Register %d: %v", i, err)
		}
	}
	if err := s.Register(EventID(99), 1, 0); !errors.Is(err, ErrCapacity) {
		t.Errorf("Register when full: got %v, want ErrCapacity", err)
	}
	// Replacing an existing entry still works when full.
	if err := s.Register(EventID(10), 5, 0); err != nil {
		t.Errorf("replace when full: %v", err)
	}
	if s.Len() != MaxEvents {
		t.Errorf("Len: got %d, want %d", s.Len(), MaxEvents)
	}
}

func TestUnregisterAbsentIsNoop(t *testing.T) {
	s := newTestScheduler(newCountingHandler())
	s.Register(EventRender, 1, 0)
	s.Unregister(EventBattery)
	if !s.Registered(EventRender) {
		t.Error("unrelated event removed")
	}
}

func TestUnregisterAll(t *testing.T) {
	s := newTestScheduler(newCountingHandler())
	s.Register(EventRender, 1, 0)
	s.Register(EventBattery, 1, 0)
	s.UnregisterAll()
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
}

func TestPumpDoesNotReenterRunningCallback(t *testing.T) {
	h := newCountingHandler()
	s := newTestScheduler(h)
	depth, maxDepth := 0, 0
	h.onCall = func(id EventID) {
		if id != EventIdleStep {
			return
		}
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		// Service the scheduler from inside the callback, as a blocking fade does.
		for i := 0; i < 3; i++ {
			s.Sync()
			s.Pump()
		}
		depth--
	}
	s.Register(EventIdleStep, 1, 0)
	s.Register(EventBattery, 2, 0)

	tick(s, 4)
	if maxDepth != 1 {
		t.Errorf("idle step re-entered: max depth %d", maxDepth)
	}
	if h.calls[EventBattery] == 0 {
		t.Error("other callbacks should still run while idle step is blocked")
	}
}

func TestUnregisterFromInsideCallback(t *testing.T) {
	h := newCountingHandler()
	s := newTestScheduler(h)
	h.onCall = func(id EventID) {
		if id == EventBattery {
			s.Unregister(EventBattery)
		}
	}
	s.Register(EventBattery, 1, 0)
	tick(s, 5)
	if got := h.calls[EventBattery]; got != 1 {
		t.Errorf("calls: got %d, want 1", got)
	}
	if s.Registered(EventBattery) {
		t.Error("event still registered")
	}
}

func TestPauseScenario(t *testing.T) {
	// 1 s = 100 ticks; a pause of one second services exactly 100 ticks,
	// during which an interval-50 event fires twice.
	h := newCountingHandler()
	s := newTestScheduler(h)
	clock := NewClock(s.TimeBase())
	s.Register(EventBattery, 50, 0)

	need := s.TimeBase().Seconds(1)
	mark := clock.Ticks()
	serviced := 0
	for {
		s.Pump()
		if clock.TicksSince(mark) >= need {
			break
		}
		s.Sync()
		clock.Advance()
		serviced++
	}
	if serviced != 100 {
		t.Errorf("ticks serviced: got %d, want 100", serviced)
	}
	if got := h.calls[EventBattery]; got != 2 {
		t.Errorf("interval-50 calls: got %d, want 2", got)
	}
}

func TestTimeBaseConversions(t *testing.T) {
	tb := TimeBase(10000)
	if got := tb.Ticks(250 * time.Millisecond); got != 2500 {
		t.Errorf("Ticks(250ms): got %d, want 2500", got)
	}
	if got := tb.Ticks(560 * time.Millisecond); got != 5600 {
		t.Errorf("Ticks(560ms): got %d, want 5600", got)
	}
	if got := tb.Seconds(3); got != 30000 {
		t.Errorf("Seconds(3): got %d, want 30000", got)
	}
}
