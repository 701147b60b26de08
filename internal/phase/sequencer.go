package phase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/babylight/internal/battery"
	"github.com/sweeney/babylight/internal/render"
	"github.com/sweeney/babylight/internal/sched"
)

// Sequencer runs the lifecycle. Tick and OnSample are its interrupt entry
// points; everything else runs on the goroutine that called Run.
type Sequencer struct {
	board Board
	t     Timings
	log   zerolog.Logger
	wdLog zerolog.Logger

	sched    *sched.Scheduler
	clock    *sched.Clock
	renderer *render.Renderer
	fader    *render.Fader

	phase       atomic.Uint32
	sample      atomic.Uint32
	sampleReady atomic.Bool

	onPhase   func(Phase)
	onBattery func(uint16, battery.Band)
}

// New returns a sequencer driving b. Nothing touches the hardware until Run.
func New(b Board, cfg Config) *Sequencer {
	s := &Sequencer{
		board:     b,
		t:         cfg.Timings,
		log:       cfg.Log,
		wdLog:     cfg.Log.Sample(&zerolog.BasicSampler{N: 10000}),
		clock:     sched.NewClock(cfg.Timings.TickRate),
		onPhase:   cfg.OnPhase,
		onBattery: cfg.OnBattery,
	}
	s.sched = sched.New(s, cfg.Log)
	s.renderer = render.NewRenderer(b.Pins, cfg.Log)
	s.fader = render.NewFader(s.renderer, s.service)
	return s
}

// Tick is the timer interrupt: it advances the scheduler and the clock.
func (s *Sequencer) Tick() {
	s.sched.Sync()
	s.clock.Advance()
}

// OnSample stores a completed conversion. It may be called from any goroutine.
func (s *Sequencer) OnSample(raw uint16) {
	s.sample.Store(uint32(raw))
	s.sampleReady.Store(true)
}

// Sample returns the most recent raw battery sample, 0 before the first.
func (s *Sequencer) Sample() uint16 {
	return uint16(s.sample.Load())
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return Phase(s.phase.Load())
}

// Pixel returns the color being rendered.
func (s *Sequencer) Pixel() render.Pixel {
	return s.renderer.Pixel()
}

// Dispatch runs a due scheduled event.
func (s *Sequencer) Dispatch(id sched.EventID, _ sched.State) {
	switch id {
	case sched.EventRender:
		s.fader.Step()
		s.renderer.Render()
	case sched.EventBattery:
		s.reportBattery()
	case sched.EventIdleStep:
		s.idleStep()
	default:
		s.log.Debug().Str("event", id.String()).Msg("unknown event")
	}
}

// Run walks every phase in order and then halts in PowerDown until ctx is
// cancelled. Phases are never aborted; ctx is only observed once halted.
func (s *Sequencer) Run(ctx context.Context) error {
	s.boot()
	s.warmUp()
	s.batteryReport()
	s.idleAnimation()
	s.sleepWarning()
	return s.powerDown(ctx)
}

func (s *Sequencer) enter(p Phase) {
	s.phase.Store(uint32(p))
	s.log.Debug().Str("phase", p.String()).Uint16("seconds", uint16(s.clock.Seconds())).Msg("entering phase")
	if s.onPhase != nil {
		s.onPhase(p)
	}
}

// feed resets the watchdog and runs due callbacks.
func (s *Sequencer) feed() {
	if err := s.board.Watchdog.Reset(); err != nil {
		s.wdLog.Warn().Err(err).Msg("watchdog reset failed")
	}
	s.sched.Pump()
}

// service is one pass of the idle loop: feed, then sleep until the next tick.
func (s *Sequencer) service() {
	s.feed()
	s.board.CPU.Idle()
}

// pause services exactly n seconds worth of ticks.
func (s *Sequencer) pause(n uint32) {
	need := s.t.TickRate.Seconds(n)
	mark := s.clock.Ticks()
	for {
		s.feed()
		if s.clock.TicksSince(mark) >= need {
			return
		}
		s.board.CPU.Idle()
	}
}

// await services the scheduler until limit seconds have passed since mark.
func (s *Sequencer) await(mark, limit sched.Seconds) {
	for s.clock.Seconds().Since(mark) < limit {
		s.service()
	}
}

func (s *Sequencer) ticks(d time.Duration) uint32 {
	return s.t.TickRate.Ticks(d)
}

func (s *Sequencer) register(id sched.EventID, interval uint32) {
	if err := s.sched.Register(id, interval, 0); err != nil {
		s.log.Error().Err(err).Str("event", id.String()).Msg("register failed")
	}
}
