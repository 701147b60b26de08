package adc

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// tapRange is the programmable gain range covering the divider tap.
const tapRange = 2048 * physic.MilliVolt

var channels = [4]ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// RealSampler reads the divider through an ADS1115.
type RealSampler struct {
	mu   sync.Mutex
	bus  i2c.BusCloser
	dev  *ads1x15.Dev
	ch   ads1x15.Channel
	pin  ads1x15.PinADC
	last uint16
	wg   sync.WaitGroup
	log  zerolog.Logger
}

// NewRealSampler opens the I2C bus (empty name selects the first bus) and
// the converter on it. The sampler starts disabled.
func NewRealSampler(busName string, channel int, log zerolog.Logger) (*RealSampler, error) {
	if channel < 0 || channel >= len(channels) {
		return nil, errors.Errorf("invalid adc channel %d", channel)
	}
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "init periph host")
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", busName)
	}
	dev, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, errors.Wrap(err, "open ads1115")
	}
	return &RealSampler{bus: bus, dev: dev, ch: channels[channel], log: log}, nil
}

// Enable configures the converter channel for single-shot conversions.
func (s *RealSampler) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pin != nil {
		return nil
	}
	pin, err := s.dev.PinForChannel(s.ch, tapRange, 8*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return errors.Wrap(err, "configure adc channel")
	}
	s.pin = pin
	return nil
}

// Disable halts the channel. Conversions in flight complete first.
func (s *RealSampler) Disable() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pin == nil {
		return nil
	}
	err := s.pin.Halt()
	s.pin = nil
	return errors.Wrap(err, "halt adc channel")
}

// StartConversion reads the channel in the background. A failed read is
// logged and reported as the previous sample.
func (s *RealSampler) StartConversion(done func(raw uint16)) error {
	s.mu.Lock()
	pin := s.pin
	s.mu.Unlock()
	if pin == nil {
		return errors.New("adc disabled")
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		raw, err := s.read(pin)
		if err != nil {
			s.log.Warn().Err(err).Msg("adc read failed")
		}
		done(raw)
	}()
	return nil
}

// ReadOnce enables the channel if needed and performs one blocking conversion.
func (s *RealSampler) ReadOnce() (uint16, error) {
	if err := s.Enable(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	pin := s.pin
	s.mu.Unlock()
	return s.read(pin)
}

func (s *RealSampler) read(pin ads1x15.PinADC) (uint16, error) {
	sample, err := pin.Read()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.last, errors.Wrap(err, "read adc")
	}
	s.last = Counts(sample.V)
	return s.last, nil
}

// Close halts the converter and releases the bus.
func (s *RealSampler) Close() error {
	var errs []error
	if err := s.Disable(); err != nil {
		errs = append(errs, err)
	}
	if err := s.bus.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close i2c bus"))
	}
	if len(errs) > 0 {
		return errors.Errorf("close errors: %v", errs)
	}
	return nil
}
