// Command babylight runs the decorative light: warm-up, battery report, idle
// animation, sleep warning and power-down, rendered in software on three GPIO lines.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/babylight/internal/adc"
	"github.com/sweeney/babylight/internal/battery"
	"github.com/sweeney/babylight/internal/cpu"
	"github.com/sweeney/babylight/internal/gpio"
	"github.com/sweeney/babylight/internal/phase"
	"github.com/sweeney/babylight/internal/status"
	"github.com/sweeney/babylight/internal/watchdog"
)

type options struct {
	level        string
	gpio         gpio.Config
	i2c          string
	adcChannel   int
	watchdog     string
	printBattery bool
	printStatus  bool
}

func main() {
	opts := options{gpio: gpio.DefaultConfig()}

	pflag.StringVarP(&opts.level, "level", "l", "info", "Set log level")
	pflag.StringVar(&opts.gpio.Chip, "chip", opts.gpio.Chip, "GPIO chip")
	pflag.IntVar(&opts.gpio.Red, "pin-red", opts.gpio.Red, "BCM pin number for the red line")
	pflag.IntVar(&opts.gpio.Green, "pin-green", opts.gpio.Green, "BCM pin number for the green line")
	pflag.IntVar(&opts.gpio.Blue, "pin-blue", opts.gpio.Blue, "BCM pin number for the blue line")
	pflag.IntVar(&opts.gpio.Load, "pin-load", opts.gpio.Load, "BCM pin number for the load switch")
	pflag.StringVar(&opts.i2c, "i2c", "", "I2C bus of the battery ADC (empty selects the first bus)")
	pflag.IntVar(&opts.adcChannel, "adc-channel", 0, "ADC channel wired to the battery divider (0-3)")
	pflag.StringVar(&opts.watchdog, "watchdog", watchdog.DefaultDevice, "Watchdog device (empty disables)")
	pflag.BoolVar(&opts.printBattery, "print-battery", false, "Print the battery state and exit")
	pflag.BoolVar(&opts.printStatus, "print-status", false, "Print the JSON status with one battery reading and exit")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(opts.level)
	if err != nil {
		Exitf("Invalid log level '%s': %v\n", opts.level, err)
	}
	logger = logger.Level(level)

	if err := run(opts, logger); err != nil {
		Exitf("fatal: %v\n", err)
	}
}

func run(opts options, log zerolog.Logger) error {
	sampler, err := adc.NewRealSampler(opts.i2c, opts.adcChannel, log.With().Str("component", "adc").Logger())
	if err != nil {
		return errors.Wrap(err, "init adc")
	}
	defer sampler.Close()

	// Print battery mode
	if opts.printBattery {
		raw, err := sampler.ReadOnce()
		if err != nil {
			return errors.Wrap(err, "read battery")
		}
		fmt.Println(formatBattery(raw))
		return nil
	}

	// Print status mode
	if opts.printStatus {
		raw, err := sampler.ReadOnce()
		if err != nil {
			return errors.Wrap(err, "read battery")
		}
		fmt.Println(string(formatStatus(opts, raw, time.Now())))
		return nil
	}

	driver, err := gpio.NewRealDriver(opts.gpio)
	if err != nil {
		return errors.Wrap(err, "init gpio")
	}
	defer driver.Close()

	var wd watchdog.Watchdog = watchdog.Nop{}
	if opts.watchdog != "" {
		wd = watchdog.NewDevice(opts.watchdog)
	}
	defer wd.Disable()

	// Prepare to shutdown in a controlled manner
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		log.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	tm := phase.DefaultTimings()
	tracker := status.NewTracker(time.Now(), statusConfig(opts, tm))
	board := phase.Board{Pins: driver, Sampler: sampler, Watchdog: wd}
	return runDaemon(ctx, board, tracker, tm, log)
}

// runDaemon runs the sequencer against b until ctx is cancelled. b.CPU is
// supplied here, bound to the tick source.
func runDaemon(ctx context.Context, b phase.Board, tracker *status.Tracker, tm phase.Timings, log zerolog.Logger) error {
	ticker := cpu.NewTicker(tm.TickRate)
	b.CPU = cpu.NewHost(ticker)

	seq := phase.New(b, phase.Config{
		Timings: tm,
		Log:     log.With().Str("component", "phase").Logger(),
		OnPhase: func(p phase.Phase) {
			tracker.SetPhase(p)
			snap := tracker.Snapshot()
			log.Info().RawJSON("status", status.FormatStatusEvent(snap, "PHASE", "")).Msgf("entered %s", p)
		},
		OnBattery: func(raw uint16, band battery.Band) {
			tracker.SetBattery(raw, band)
			log.Debug().Uint16("raw", raw).Str("band", band.String()).Msg("battery")
		},
	})

	log.Info().Uint32("tick_rate", uint32(tm.TickRate)).Msg("started")

	// The sequencer only returns once halted in power-down; before that it
	// parks in Idle when the ticker stops, like a core with interrupts off.
	seqDone := make(chan error, 1)
	go func() { seqDone <- seq.Run(ctx) }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := ticker.Run(gctx, seq.Tick)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		ticker.Stop()
		return nil
	})
	err := g.Wait()

	if ferr := b.Pins.Float(); ferr != nil {
		log.Warn().Err(ferr).Msg("float lines failed")
	}
	select {
	case serr := <-seqDone:
		log.Debug().Err(serr).Msg("sequencer halted")
	default:
	}
	snap := tracker.Snapshot()
	log.Info().RawJSON("status", status.FormatStatusEvent(snap, "SHUTDOWN", "")).Msg("shutting down")
	return errors.Wrap(err, "tick source")
}

func statusConfig(opts options, tm phase.Timings) status.Config {
	return status.Config{
		TickRate:   uint32(tm.TickRate),
		Chip:       opts.gpio.Chip,
		Pins:       [4]int{opts.gpio.Red, opts.gpio.Green, opts.gpio.Blue, opts.gpio.Load},
		I2CBus:     opts.i2c,
		ADCChannel: opts.adcChannel,
		Watchdog:   opts.watchdog,
	}
}

func formatBattery(raw uint16) string {
	band := battery.Classify(raw)
	return fmt.Sprintf("raw: %d, band: %s, cell: %s", raw, band, humanize.SIWithDigits(battery.CellVolts(raw), 2, "V"))
}

// formatStatus returns the indented status of a sequencer that has not yet
// started, carrying the single reading raw.
func formatStatus(opts options, raw uint16, now time.Time) []byte {
	tracker := status.NewTracker(now, statusConfig(opts, phase.DefaultTimings()))
	tracker.SetBattery(raw, battery.Classify(raw))
	return status.FormatJSON(tracker.Snapshot())
}

// Exitf prints the given error message and exits with code 1.
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
