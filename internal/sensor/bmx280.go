package sensor

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// DefaultBMP280Address is the BMP280 address with SDO tied low.
const DefaultBMP280Address uint16 = 0x76

// bmxDevice is the part of *bmxx80.Dev the barometer drives.
type bmxDevice interface {
	Sense(e *physic.Env) error
	SenseContinuous(interval time.Duration) (<-chan physic.Env, error)
	Halt() error
}

// BMX280 is a Bosch BMP280/BME280 on an I²C bus. Nothing is opened until
// Configure, so a missing bus is a per-cycle failure, not a startup one.
type BMX280 struct {
	mu      sync.Mutex
	busName string
	addr    uint16
	logger  *slog.Logger

	openBus func(name string) (i2c.BusCloser, error)
	newDev  func(bus i2c.Bus, addr uint16, opts *bmxx80.Opts) (bmxDevice, error)

	bus  i2c.BusCloser
	dev  bmxDevice
	cont <-chan physic.Env
	wait time.Duration
}

// NewBMX280 returns a barometer on the named I²C bus ("" is the first
// available bus) at addr.
func NewBMX280(busName string, addr uint16, logger *slog.Logger) *BMX280 {
	if logger == nil {
		logger = slog.Default()
	}
	return &BMX280{
		busName: busName,
		addr:    addr,
		logger:  logger.With("component", "bmx280", "addr", fmt.Sprintf("0x%02x", addr)),
		openBus: openI2CBus,
		newDev: func(bus i2c.Bus, addr uint16, opts *bmxx80.Opts) (bmxDevice, error) {
			return bmxx80.NewI2C(bus, addr, opts)
		},
	}
}

func openI2CBus(name string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w: %v", ErrResourceUnavailable, err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w: %v", name, ErrResourceUnavailable, err)
	}
	return bus, nil
}

// Configure opens the bus if needed, probes the device with the given
// oversampling and filter, and starts continuous conversions when
// cfg.OutputDataRate is set. A failed probe releases the bus so the next
// call starts from scratch.
func (b *BMX280) Configure(cfg Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.haltLocked(); err != nil {
		b.logger.Warn("halt before reconfigure failed", "error", err)
	}

	if b.bus == nil {
		bus, err := b.openBus(b.busName)
		if err != nil {
			return err
		}
		b.bus = bus
	}

	dev, err := b.newDev(b.bus, b.addr, &bmxx80.Opts{
		Temperature: cfg.TempOversampling,
		Pressure:    cfg.PressureOversampling,
		Filter:      cfg.Filter,
	})
	if err != nil {
		if cerr := b.bus.Close(); cerr != nil {
			b.logger.Warn("close i2c bus failed", "error", cerr)
		}
		b.bus = nil
		return fmt.Errorf("bmxx80 at 0x%02x: %w: %v", b.addr, ErrResourceUnavailable, err)
	}
	b.dev = dev

	if cfg.OutputDataRate > 0 {
		ch, err := dev.SenseContinuous(cfg.OutputDataRate)
		if err != nil {
			if herr := b.haltLocked(); herr != nil {
				b.logger.Warn("halt failed", "error", herr)
			}
			return fmt.Errorf("start continuous sensing: %w", err)
		}
		b.cont = ch
		b.wait = 2*cfg.OutputDataRate + time.Second
	}
	return nil
}

// ReadCalibrated returns one compensated sample. In forced mode every call
// runs a fresh conversion, so a transient bus error only costs that call.
// In continuous mode the device stops at its first failed conversion; the
// device is then dropped and the error wraps ErrNotConfigured so the caller
// configures again.
func (b *BMX280) ReadCalibrated() (Reading, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dev == nil {
		return Reading{}, ErrNotConfigured
	}

	if b.cont == nil {
		var env physic.Env
		if err := b.dev.Sense(&env); err != nil {
			return Reading{}, fmt.Errorf("sense: %w: %v", ErrResourceUnavailable, err)
		}
		return toReading(env), nil
	}

	var cause string
	select {
	case env, ok := <-b.cont:
		if ok {
			return toReading(env), nil
		}
		cause = "continuous sensing stopped"
	case <-time.After(b.wait):
		cause = fmt.Sprintf("no sample within %v", b.wait)
	}
	if err := b.haltLocked(); err != nil {
		b.logger.Warn("halt failed", "error", err)
	}
	return Reading{}, fmt.Errorf("sense: %w: %w: %s", ErrResourceUnavailable, ErrNotConfigured, cause)
}

// Close halts the device and closes the bus.
func (b *BMX280) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.haltLocked()
	if b.bus != nil {
		err = multierr.Append(err, b.bus.Close())
		b.bus = nil
	}
	return err
}

// haltLocked stops conversions and forgets the device. The bus stays open.
func (b *BMX280) haltLocked() error {
	if b.dev == nil {
		return nil
	}
	err := b.dev.Halt()
	b.dev, b.cont = nil, nil
	if err != nil {
		return fmt.Errorf("halt: %w", err)
	}
	return nil
}

func toReading(env physic.Env) Reading {
	return Reading{
		TemperatureC: env.Temperature.Celsius(),
		PressurePa:   float64(env.Pressure) / float64(physic.Pascal),
	}
}
