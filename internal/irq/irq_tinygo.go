//go:build tinygo

package irq

import "runtime/interrupt"

// State is the saved interrupt state.
type State = interrupt.State

// Guard masks interrupts for the duration of a critical section.
type Guard struct{}

// Disable disables interrupts and returns the previous state.
func (g *Guard) Disable() State {
	return interrupt.Disable()
}

// Restore restores the interrupt state.
func (g *Guard) Restore(state State) {
	interrupt.Restore(state)
}
