//go:build !tinygo

package irq

import "sync"

// State is a placeholder for the saved interrupt state on regular Go.
type State uintptr

// Guard serializes the tick goroutine against the idle loop.
// Critical sections must not nest.
type Guard struct {
	mu sync.Mutex
}

// Disable enters the critical section.
func (g *Guard) Disable() State {
	g.mu.Lock()
	return 0
}

// Restore leaves the critical section.
func (g *Guard) Restore(State) {
	g.mu.Unlock()
}
