// Package sched implements the tick-driven event scheduler.
// Sync runs once per hardware tick at interrupt priority; Pump runs from the
// idle loop and executes the callbacks that must not run at interrupt priority.
package sched

import (
	"time"

	"github.com/pkg/errors"
)

// MaxEvents is the capacity of the event table.
const MaxEvents = 4

var (
	// ErrCapacity is returned when the event table has no free slot.
	ErrCapacity = errors.New("sched: event table full")
	// ErrNoTimeBase is returned when registering before SetTimeBase.
	ErrNoTimeBase = errors.New("sched: time base not set")
)

// EventID names one of the fixed set of scheduled callbacks.
type EventID uint8

const (
	EventNone EventID = iota
	// EventRender advances the active fade and renders the pixel.
	EventRender
	// EventBattery samples the battery and fades to its band color.
	EventBattery
	// EventIdleStep fades to the next idle-animation color.
	EventIdleStep
)

func (id EventID) String() string {
	switch id {
	case EventRender:
		return "render"
	case EventBattery:
		return "battery"
	case EventIdleStep:
		return "idle-step"
	default:
		return "none"
	}
}

// State is the opaque per-event value handed back to the handler.
type State uint8

// Priority selects where a due callback runs.
type Priority uint8

const (
	// Normal callbacks are deferred to Pump.
	Normal Priority = iota
	// High callbacks run inline in Sync.
	High
)

// Handler dispatches a due event to its callback.
type Handler interface {
	Dispatch(id EventID, state State)
}

// TimeBase is the tick frequency in ticks per second.
type TimeBase uint32

// Ticks converts d to a whole number of ticks, truncating.
func (tb TimeBase) Ticks(d time.Duration) uint32 {
	return uint32(uint64(tb) * uint64(d) / uint64(time.Second))
}

// Seconds converts whole seconds to ticks.
func (tb TimeBase) Seconds(n uint32) uint32 {
	return uint32(tb) * n
}
