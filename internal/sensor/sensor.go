// Package sensor provides the temperature/pressure and light collaborators.
// Real implementations read a Bosch BMP280 over I²C and the IIO ADC sysfs
// files; fakes return scripted values for tests.
package sensor

import (
	"errors"
	"time"

	"periph.io/x/devices/v3/bmxx80"
)

var (
	// ErrResourceUnavailable is returned when a sensor resource cannot be opened or read.
	ErrResourceUnavailable = errors.New("sensor: resource unavailable")
	// ErrParseFailure is returned when an ADC value is not numeric.
	ErrParseFailure = errors.New("sensor: parse failure")
	// ErrNotConfigured is returned by ReadCalibrated before Configure, and
	// wrapped when the device has stopped and must be configured again.
	ErrNotConfigured = errors.New("sensor: not configured")
)

// ADCFailure is the value reported by ReadChannel when it fails.
const ADCFailure = -1

// Reading is one calibrated barometer sample.
type Reading struct {
	TemperatureC float64
	PressurePa   float64
}

// Config is the fixed barometer configuration.
type Config struct {
	TempOversampling     bmxx80.Oversampling
	PressureOversampling bmxx80.Oversampling
	Filter               bmxx80.Filter
	// OutputDataRate is the continuous-mode sampling interval.
	// Zero selects forced mode: one conversion per ReadCalibrated.
	OutputDataRate time.Duration
}

// DefaultConfig is the configuration the board runs with: 2x temperature
// and 16x pressure oversampling with no IIR filter, one forced conversion
// per read.
var DefaultConfig = Config{
	TempOversampling:     bmxx80.O2x,
	PressureOversampling: bmxx80.O16x,
	Filter:               bmxx80.NoFilter,
	OutputDataRate:       0,
}

// Barometer reads calibrated temperature and pressure.
type Barometer interface {
	// Configure applies cfg. It is called before the first read and again
	// whenever a read reports ErrNotConfigured.
	Configure(cfg Config) error

	// ReadCalibrated returns the latest compensated sample.
	ReadCalibrated() (Reading, error)

	// Close stops conversions and releases the bus.
	Close() error
}

// ADC reads raw analog-to-digital converter channels.
type ADC interface {
	// ReadChannel returns the raw value of channel, or ADCFailure and an
	// error if the channel could not be read.
	ReadChannel(channel int) (int, error)
}
