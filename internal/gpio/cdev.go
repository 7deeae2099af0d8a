//go:build linux

package gpio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"

// CdevDriver drives lines through the Linux GPIO character device.
// Pins are line offsets on a single chip.
type CdevDriver struct {
	mu     sync.Mutex
	chip   *gpiocdev.Chip
	lines  map[Pin]*gpiocdev.Line
	logger *slog.Logger
}

// NewCdevDriver opens the named chip (DefaultChip when empty).
func NewCdevDriver(chipName string, logger *slog.Logger) (*CdevDriver, error) {
	if chipName == "" {
		chipName = DefaultChip
	}
	if logger == nil {
		logger = slog.Default()
	}
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer("sensor-lcd"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}
	return &CdevDriver{
		chip:   chip,
		lines:  make(map[Pin]*gpiocdev.Line),
		logger: logger.With("component", "gpio", "backend", "cdev", "chip", chipName),
	}, nil
}

// Export requests the line as an input. A line this driver already holds is
// released and requested again.
func (d *CdevDriver) Export(pin Pin) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if l, ok := d.lines[pin]; ok {
		d.logger.Debug("line already requested, re-requesting", "pin", pin)
		if err := l.Close(); err != nil {
			d.logger.Warn("release failed", "pin", pin, "error", err)
		}
		delete(d.lines, pin)
	}

	l, err := d.chip.RequestLine(int(pin), gpiocdev.AsInput)
	if err != nil {
		d.logger.Warn("export failed", "pin", pin, "error", err)
		return fmt.Errorf("export %s: %w: %v", pin, ErrResourceUnavailable, err)
	}
	d.lines[pin] = l
	return nil
}

// Unexport releases the line.
func (d *CdevDriver) Unexport(pin Pin) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.lines[pin]
	if !ok {
		return nil
	}
	delete(d.lines, pin)
	if err := l.Close(); err != nil {
		d.logger.Warn("unexport failed", "pin", pin, "error", err)
		return fmt.Errorf("unexport %s: %w", pin, err)
	}
	return nil
}

// SetDirection reconfigures a requested line. Outputs start low.
func (d *CdevDriver) SetDirection(pin Pin, dir Direction) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.lines[pin]
	if !ok {
		d.logger.Warn("set direction on unexported line", "pin", pin)
		return fmt.Errorf("set direction %s: %w", pin, ErrNotExported)
	}

	var err error
	switch dir {
	case In:
		err = l.Reconfigure(gpiocdev.AsInput)
	case Out:
		err = l.Reconfigure(gpiocdev.AsOutput(0))
	default:
		return fmt.Errorf("gpio: invalid direction %q", dir)
	}
	if err != nil {
		d.logger.Warn("set direction failed", "pin", pin, "direction", dir, "error", err)
		return fmt.Errorf("set direction %s: %w: %v", pin, ErrWriteFailure, err)
	}
	return nil
}

// Write sets the level of an output line.
func (d *CdevDriver) Write(pin Pin, level Level) error {
	d.mu.Lock()
	l, ok := d.lines[pin]
	d.mu.Unlock()

	if !ok {
		d.logger.Warn("write to unexported line", "pin", pin)
		return fmt.Errorf("write %s: %w", pin, ErrNotExported)
	}
	v := 0
	if level {
		v = 1
	}
	if err := l.SetValue(v); err != nil {
		d.logger.Warn("write failed", "pin", pin, "level", level, "error", err)
		return fmt.Errorf("write %s: %w: %v", pin, ErrWriteFailure, err)
	}
	return nil
}

// Close releases every requested line and the chip.
// Lines are reconfigured as inputs first so the hardware is left undriven.
func (d *CdevDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	for pin, l := range d.lines {
		if rerr := l.Reconfigure(gpiocdev.AsInput); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("reconfigure %s: %w", pin, rerr))
		}
		if cerr := l.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s: %w", pin, cerr))
		}
		delete(d.lines, pin)
	}
	if d.chip != nil {
		if cerr := d.chip.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close chip: %w", cerr))
		}
		d.chip = nil
	}
	return err
}
