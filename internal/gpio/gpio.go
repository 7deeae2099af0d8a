// Package gpio drives discrete digital output lines.
// The sysfs implementation writes the kernel's /sys/class/gpio control files,
// the cdev implementation uses the Linux GPIO character device,
// and the fake implementation records operations for tests.
package gpio

import (
	"errors"
	"strconv"
)

// Pin is a platform line identifier (sysfs GPIO number or chip line offset).
type Pin int

func (p Pin) String() string {
	return strconv.Itoa(int(p))
}

// Direction is the configured direction of a line.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// Level is the logical level of a line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "1"
	}
	return "0"
}

var (
	// ErrResourceUnavailable is returned when a line's control resource cannot be opened.
	ErrResourceUnavailable = errors.New("gpio: resource unavailable")
	// ErrWriteFailure is returned on a short or failed write to a line.
	ErrWriteFailure = errors.New("gpio: write failure")
	// ErrNotExported is returned when a line is used before Export and SetDirection(Out).
	ErrNotExported = errors.New("gpio: line not exported as output")
)

// Driver exports lines and toggles their levels.
// Every failure is returned to the caller; none is fatal to the driver,
// and later operations on the same or other lines are still attempted.
type Driver interface {
	// Export claims a line. A line still claimed by a previous owner is
	// released and claimed again.
	Export(pin Pin) error

	// Unexport releases a line. Best effort.
	Unexport(pin Pin) error

	// SetDirection configures a line as input or output.
	SetDirection(pin Pin, dir Direction) error

	// Write drives an output line to the given level.
	Write(pin Pin, level Level) error

	// Close releases all resources held by the driver.
	Close() error
}
