//go:build !linux

package gpio

import (
	"errors"
	"log/slog"
)

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"

// CdevDriver is not available on non-Linux platforms.
type CdevDriver struct{}

// NewCdevDriver returns an error on non-Linux platforms.
func NewCdevDriver(chipName string, logger *slog.Logger) (*CdevDriver, error) {
	return nil, errors.New("gpio: character device not supported on this platform (requires Linux)")
}

// Export is not implemented on non-Linux platforms.
func (d *CdevDriver) Export(pin Pin) error { return errors.New("gpio: not supported") }

// Unexport is not implemented on non-Linux platforms.
func (d *CdevDriver) Unexport(pin Pin) error { return errors.New("gpio: not supported") }

// SetDirection is not implemented on non-Linux platforms.
func (d *CdevDriver) SetDirection(pin Pin, dir Direction) error {
	return errors.New("gpio: not supported")
}

// Write is not implemented on non-Linux platforms.
func (d *CdevDriver) Write(pin Pin, level Level) error { return errors.New("gpio: not supported") }

// Close is a no-op on non-Linux platforms.
func (d *CdevDriver) Close() error { return nil }
