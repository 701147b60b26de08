// Package phase sequences the light through its power-on lifecycle.
//
// A Sequencer walks WarmUp, BatteryReport, IdleAnimation, SleepWarning and
// PowerDown in that order, once per power-on. It owns the scheduler, the
// renderer and the fader; the hardware it drives is supplied as a Board.
package phase

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/babylight/internal/battery"
	"github.com/sweeney/babylight/internal/render"
	"github.com/sweeney/babylight/internal/sched"
)

// Phase is a stage of the lifecycle.
type Phase uint8

const (
	Boot Phase = iota
	WarmUp
	BatteryReport
	IdleAnimation
	SleepWarning
	PowerDown
)

func (p Phase) String() string {
	switch p {
	case Boot:
		return "boot"
	case WarmUp:
		return "warm-up"
	case BatteryReport:
		return "battery-report"
	case IdleAnimation:
		return "idle-animation"
	case SleepWarning:
		return "sleep-warning"
	case PowerDown:
		return "power-down"
	default:
		return "unknown"
	}
}

// Pins drives the three color lines and the load switch.
type Pins interface {
	render.Lines
	// SetLoad switches the motor/load collaborator.
	SetLoad(on bool) error
	// Float puts every line in its lowest-power input configuration.
	Float() error
}

// Sampler is the analog converter measuring the battery.
type Sampler interface {
	Enable() error
	Disable() error
	// StartConversion begins one conversion; done is called with the raw
	// sample when it completes, possibly from another goroutine.
	StartConversion(done func(raw uint16)) error
}

// Watchdog resets the system if it is not serviced in time.
type Watchdog interface {
	Enable(timeout time.Duration) error
	Reset() error
	Disable() error
}

// CPU exposes the power modes and the fast free-running counter.
type CPU interface {
	// Idle sleeps until the next tick.
	Idle()
	// IdleUntilSample sleeps until the next tick or sampler completion.
	IdleUntilSample()
	// DisableInterrupts stops tick delivery.
	DisableInterrupts()
	// Halt enters the deepest sleep until the wake source fires.
	Halt()
	// Count returns the fast free-running counter.
	Count() uint8
}

// Board is the hardware a Sequencer drives.
type Board struct {
	Pins     Pins
	Sampler  Sampler
	Watchdog Watchdog
	CPU      CPU
}

// Timings are the compiled-in durations of the lifecycle.
type Timings struct {
	TickRate  sched.TimeBase
	Dimmer    time.Duration // warm-up and battery fades
	Wheel     time.Duration // idle-animation fades
	SleepyEye time.Duration // sleep-warning fade-in
	Awake     sched.Seconds // idle-animation length
	Sleep     sched.Seconds // sleep-warning length
	Watchdog  time.Duration
}

// TickRate is the timer interrupt frequency: 8 MHz / 8 / 200, doubled.
const TickRate = 8_000_000 / 8 / 200 * 2

// DefaultTimings returns the timings the light ships with.
func DefaultTimings() Timings {
	return Timings{
		TickRate:  TickRate,
		Dimmer:    250 * time.Millisecond,
		Wheel:     300 * time.Millisecond,
		SleepyEye: 400 * time.Millisecond,
		Awake:     5400,
		Sleep:     1800,
		Watchdog:  2 * time.Second,
	}
}

// Config holds the optional parts of a Sequencer.
type Config struct {
	Timings Timings
	Log     zerolog.Logger
	// OnPhase is called on the sequencer's goroutine when a phase is entered.
	OnPhase func(Phase)
	// OnBattery is called with every classified sample.
	OnBattery func(raw uint16, band battery.Band)
}
