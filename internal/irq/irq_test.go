//go:build !tinygo

package irq

import (
	"sync"
	"testing"
)

func TestGuardSerializes(t *testing.T) {
	var g Guard
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				st := g.Disable()
				counter++
				g.Restore(st)
			}
		}()
	}
	wg.Wait()

	if counter != 8000 {
		t.Errorf("counter: got %d, want 8000", counter)
	}
}
