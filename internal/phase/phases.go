package phase

import (
	"context"

	"github.com/sweeney/babylight/internal/battery"
	"github.com/sweeney/babylight/internal/render"
	"github.com/sweeney/babylight/internal/sched"
)

// palette is the idle animation, indexed by the low three bits of the
// fast counter. Channels stay at or below 12 to save the battery.
var palette = [8]render.Pixel{
	{R: 12, G: 3, B: 6},
	{R: 3, G: 4, B: 4},
	{R: 6, G: 3, B: 0},
	{R: 4, G: 0, B: 6},
	{R: 12, G: 3, B: 0},
	{R: 6, G: 6, B: 0},
	{R: 4, G: 6, B: 3},
	{R: 3, G: 12, B: 0},
}

var (
	warmRed   = render.Pixel{R: 40}
	warmGreen = render.Pixel{G: 40}
	warmBlue  = render.Pixel{B: 40}
	warmWhite = render.Pixel{R: 60, G: 60, B: 60}
	sleepyEye = render.Pixel{R: 14}
)

func (s *Sequencer) boot() {
	s.enter(Boot)
	s.sched.UnregisterAll()
	s.sched.SetTimeBase(s.t.TickRate)
	if err := s.board.Sampler.Enable(); err != nil {
		s.log.Error().Err(err).Msg("enable sampler failed")
	}
	if err := s.sched.RegisterHighPriority(sched.EventRender, 1, 0); err != nil {
		s.log.Error().Err(err).Msg("register render failed")
	}
	if err := s.board.Watchdog.Enable(s.t.Watchdog); err != nil {
		s.log.Error().Err(err).Msg("enable watchdog failed")
	}
}

func (s *Sequencer) warmUp() {
	s.enter(WarmUp)
	if err := s.board.Pins.SetLoad(true); err != nil {
		s.log.Error().Err(err).Msg("load on failed")
	}
	s.pause(1)

	d := s.ticks(s.t.Dimmer)
	s.fader.FadeIn(warmRed, d)
	s.fader.FadeTo(warmGreen, d)
	s.fader.FadeTo(warmBlue, d)
	s.fader.FadeOut(d)

	s.fader.FadeIn(warmWhite, d)
	s.pause(1)
	s.fader.FadeOut(d)
	s.pause(1)
}

func (s *Sequencer) batteryReport() {
	s.enter(BatteryReport)
	s.register(sched.EventBattery, uint32(s.t.TickRate)/2)
	s.pause(3)
	s.sched.Unregister(sched.EventBattery)
	s.fader.FadeOut(s.ticks(s.t.Dimmer))
	if err := s.board.Sampler.Disable(); err != nil {
		s.log.Error().Err(err).Msg("disable sampler failed")
	}
	s.pause(2)
}

// reportBattery samples the battery and fades to the color of its band.
func (s *Sequencer) reportBattery() {
	s.sampleReady.Store(false)
	if err := s.board.Sampler.StartConversion(s.OnSample); err != nil {
		s.log.Warn().Err(err).Msg("start conversion failed")
	} else {
		for !s.sampleReady.Load() {
			s.board.CPU.IdleUntilSample()
		}
	}
	raw := s.Sample()
	band := battery.Classify(raw)
	s.log.Debug().Uint16("raw", raw).Str("band", band.String()).Msg("battery sampled")
	if s.onBattery != nil {
		s.onBattery(raw, band)
	}
	s.fader.FadeTo(battery.ColorFor(band), s.ticks(s.t.Dimmer))
}

func (s *Sequencer) idleAnimation() {
	s.enter(IdleAnimation)
	s.clock.ResetSeconds()
	mark := s.clock.Seconds()
	s.register(sched.EventIdleStep, 1)
	s.await(mark, s.t.Awake)
	s.sched.Unregister(sched.EventIdleStep)
	s.fader.FadeOut(s.ticks(s.t.Wheel))
	s.pause(2)
}

// idleStep fades to the next palette color.
func (s *Sequencer) idleStep() {
	s.fader.FadeTo(palette[s.board.CPU.Count()&7], s.ticks(s.t.Wheel))
}

func (s *Sequencer) sleepWarning() {
	s.enter(SleepWarning)
	if err := s.board.Sampler.Disable(); err != nil {
		s.log.Error().Err(err).Msg("disable sampler failed")
	}
	if err := s.board.Watchdog.Disable(); err != nil {
		s.log.Error().Err(err).Msg("disable watchdog failed")
	}
	if err := s.board.Pins.SetLoad(false); err != nil {
		s.log.Error().Err(err).Msg("load off failed")
	}
	s.clock.ResetSeconds()
	mark := s.clock.Seconds()
	for s.clock.Seconds().Since(mark) < s.t.Sleep {
		s.fader.FadeIn(sleepyEye, s.ticks(s.t.SleepyEye))
		s.pause(1)
		s.fader.FadeOut(s.ticks(s.t.SleepyEye * 14 / 10))
		s.pause(10)
	}
}

func (s *Sequencer) powerDown(ctx context.Context) error {
	s.enter(PowerDown)
	if err := s.board.Pins.Float(); err != nil {
		s.log.Error().Err(err).Msg("float lines failed")
	}
	s.board.CPU.DisableInterrupts()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.board.CPU.Halt()
	}
}
