package sensor

import (
	"errors"
	"sync"
)

// FakeBarometer is a test double that returns scripted readings.
type FakeBarometer struct {
	mu sync.Mutex

	// Readings contains scripted values. Each call to ReadCalibrated consumes
	// the next one; the last is repeated once they run out.
	Readings []Reading

	// ReadError, if set, is returned by ReadCalibrated.
	ReadError error

	// ConfigureError, if set, is returned by Configure.
	ConfigureError error

	// Configured holds the last configuration applied.
	Configured *Config

	// Configures counts Configure calls, failed ones included.
	Configures int

	// Reads counts ReadCalibrated calls.
	Reads int

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakeBarometer creates a FakeBarometer with the given readings.
func NewFakeBarometer(readings ...Reading) *FakeBarometer {
	return &FakeBarometer{Readings: readings}
}

// Configure records cfg.
func (f *FakeBarometer) Configure(cfg Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Configures++
	if f.ConfigureError != nil {
		return f.ConfigureError
	}
	f.Configured = &cfg
	return nil
}

// ReadCalibrated returns the next scripted reading.
func (f *FakeBarometer) ReadCalibrated() (Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reads++
	if f.ReadError != nil {
		return Reading{}, f.ReadError
	}
	if f.Configured == nil {
		return Reading{}, ErrNotConfigured
	}
	if len(f.Readings) == 0 {
		return Reading{}, errors.New("no readings configured")
	}
	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}
	return r, nil
}

// Close marks the barometer as closed.
func (f *FakeBarometer) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// FakeADC is a test double that returns scripted channel values.
type FakeADC struct {
	mu sync.Mutex

	// Values contains scripted values, consumed like FakeBarometer.Readings.
	Values []int

	// ReadError, if set, makes ReadChannel return ADCFailure and the error.
	ReadError error

	// Channels records the channel of every call.
	Channels []int

	index int
}

// NewFakeADC creates a FakeADC with the given values.
func NewFakeADC(values ...int) *FakeADC {
	return &FakeADC{Values: values}
}

// ReadChannel returns the next scripted value.
func (f *FakeADC) ReadChannel(channel int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Channels = append(f.Channels, channel)
	if f.ReadError != nil {
		return ADCFailure, f.ReadError
	}
	if len(f.Values) == 0 {
		return ADCFailure, errors.New("no values configured")
	}
	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}
