// Package irq provides the critical section used to share state between the
// tick interrupt and the idle loop.
//
// On a microcontroller (TinyGo) a Guard disables interrupts. On a hosted build
// the "interrupt" is the tick goroutine, so a Guard is a mutex.
package irq
