// Package lcd drives an HD44780 character LCD in 4-bit mode over six
// discrete GPIO lines: register select, enable and data lines D4-D7.
//
// The controller's busy flag is never read (R/W is tied low), so every
// transfer is followed by the worst-case delay from the datasheet.
package lcd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/sweeney/sensor-lcd/internal/gpio"
)

// HD44780 instruction set subset used by this driver.
const (
	CmdClear        byte = 0x01
	CmdFunctionSet  byte = 0x28 // 4-bit interface, 2 lines, 5x8 font
	CmdDisplayOn    byte = 0x0C // display on, cursor off, blink off
	CmdEntryMode    byte = 0x06 // increment cursor, no display shift
	CmdSecondLine   byte = 0xC0 // set DDRAM address 0x40
	nibbleWakeup    byte = 0x03 // function set, 8-bit interface (high nibble)
	nibbleFourBitIF byte = 0x02 // function set, 4-bit interface (high nibble)
)

// Protocol timings. These are minimums from the datasheet, not tunables.
const (
	PowerOnDelay = 15 * time.Millisecond
	WakeupDelay1 = 4100 * time.Microsecond
	WakeupDelay2 = 100 * time.Microsecond
	EnablePulse  = 1 * time.Microsecond // >= 450ns
	SettleDelay  = 37 * time.Microsecond
	ClearDelay   = 1520 * time.Microsecond
)

// DefaultColumns is the line width of the 20x2 module the board ships with.
// The controller's DDRAM holds 40 characters per line, so wider text is
// stored but not visible.
const DefaultColumns = 20

// State is the controller state as known to the driver.
type State int

const (
	Uninitialized State = iota
	FourBitHandshake
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case FourBitHandshake:
		return "handshake"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrNotReady is returned when a transfer is attempted before Init completes.
var ErrNotReady = errors.New("lcd: controller not initialized")

// Pins maps the LCD's line roles to platform pins.
type Pins struct {
	RS gpio.Pin
	E  gpio.Pin
	D4 gpio.Pin
	D5 gpio.Pin
	D6 gpio.Pin
	D7 gpio.Pin
}

// DefaultPins returns the BeagleBone wiring the board was built with.
func DefaultPins() Pins {
	return Pins{RS: 67, E: 68, D4: 44, D5: 26, D6: 46, D7: 65}
}

func (p Pins) all() []gpio.Pin {
	return []gpio.Pin{p.RS, p.E, p.D4, p.D5, p.D6, p.D7}
}

func (p Pins) data() [4]gpio.Pin {
	return [4]gpio.Pin{p.D4, p.D5, p.D6, p.D7}
}

// Options configures a Driver. The zero value is usable.
type Options struct {
	// Columns is the per-line character capacity.
	// Zero means DefaultColumns.
	Columns int
	// Sleep replaces time.Sleep, for tests.
	Sleep  func(time.Duration)
	Logger *slog.Logger
}

// Driver is an HD44780 controller attached through a gpio.Driver.
// It is not safe for concurrent use; one task owns the display.
type Driver struct {
	gpio    gpio.Driver
	pins    Pins
	columns int
	sleep   func(time.Duration)
	logger  *slog.Logger
	state   State
}

// New creates a Driver. The controller is not touched until Init.
func New(d gpio.Driver, pins Pins, opts Options) *Driver {
	if opts.Columns <= 0 {
		opts.Columns = DefaultColumns
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Driver{
		gpio:    d,
		pins:    pins,
		columns: opts.Columns,
		sleep:   opts.Sleep,
		logger:  opts.Logger.With("component", "lcd"),
	}
}

// State returns the current controller state.
func (l *Driver) State() State {
	return l.state
}

// Columns returns the per-line character capacity.
func (l *Driver) Columns() int {
	return l.columns
}

// Init claims the six lines as outputs and runs the cold-start handshake.
//
// After power-on the controller may be in 8-bit mode or halfway through a
// 4-bit transfer, so three 8-bit function-set nibbles force a known state
// before switching to 4-bit. The sequence must not be shortened.
//
// Line failures are logged and returned, but the handshake is still run so a
// partially wired display does as much as it can.
func (l *Driver) Init() error {
	var err error
	for _, p := range l.pins.all() {
		if e := l.gpio.Export(p); e != nil {
			err = multierr.Append(err, e)
		}
	}
	for _, p := range l.pins.all() {
		if e := l.gpio.SetDirection(p, gpio.Out); e != nil {
			err = multierr.Append(err, e)
		}
	}

	l.state = FourBitHandshake
	err = multierr.Append(err, l.gpio.Write(l.pins.RS, gpio.Low))
	err = multierr.Append(err, l.gpio.Write(l.pins.E, gpio.Low))

	l.sleep(PowerOnDelay)
	err = multierr.Append(err, l.SendNibble(nibbleWakeup))
	l.sleep(WakeupDelay1)
	err = multierr.Append(err, l.SendNibble(nibbleWakeup))
	l.sleep(WakeupDelay2)
	err = multierr.Append(err, l.SendNibble(nibbleWakeup))
	err = multierr.Append(err, l.SendNibble(nibbleFourBitIF))

	l.state = Ready
	err = multierr.Append(err, l.command(CmdFunctionSet))
	err = multierr.Append(err, l.command(CmdDisplayOn))
	err = multierr.Append(err, l.command(CmdEntryMode))
	err = multierr.Append(err, l.Clear())

	if err != nil {
		l.logger.Warn("init completed with line errors", "error", err)
		return fmt.Errorf("lcd init: %w", err)
	}
	l.logger.Info("initialized", "columns", l.columns)
	return nil
}

// SendByte sets register select (data or instruction) and transfers the
// high nibble followed by the low nibble.
func (l *Driver) SendByte(b byte, isData bool) error {
	if l.state != Ready {
		return ErrNotReady
	}
	err := l.gpio.Write(l.pins.RS, gpio.Level(isData))
	err = multierr.Append(err, l.SendNibble(b>>4))
	err = multierr.Append(err, l.SendNibble(b&0x0f))
	return err
}

// SendNibble drives D4-D7 from bits 0-3 of n, then strobes enable and waits
// for the controller to latch.
func (l *Driver) SendNibble(n byte) error {
	if l.state == Uninitialized {
		return ErrNotReady
	}
	var err error
	for i, p := range l.pins.data() {
		err = multierr.Append(err, l.gpio.Write(p, gpio.Level(n&(1<<i) != 0)))
	}
	err = multierr.Append(err, l.gpio.Write(l.pins.E, gpio.High))
	l.sleep(EnablePulse)
	err = multierr.Append(err, l.gpio.Write(l.pins.E, gpio.Low))
	l.sleep(SettleDelay)
	return err
}

func (l *Driver) command(c byte) error {
	return l.SendByte(c, false)
}

// Clear blanks the display and homes the cursor.
func (l *Driver) Clear() error {
	err := l.command(CmdClear)
	l.sleep(ClearDelay)
	return err
}

// Print sends every byte of s as data. There is no wrap handling: bytes
// past the column count land in the controller's off-screen DDRAM.
func (l *Driver) Print(s string) error {
	if l.state != Ready {
		return ErrNotReady
	}
	if len(s) > l.columns {
		l.logger.Debug("text wider than display", "len", len(s), "columns", l.columns)
	}
	var err error
	for _, b := range []byte(s) {
		err = multierr.Append(err, l.SendByte(b, true))
	}
	return err
}

// DisplayTwoLines clears the display and draws line1 and line2.
// Always clearing trades some flicker for never leaving stale characters.
func (l *Driver) DisplayTwoLines(line1, line2 string) error {
	if l.state != Ready {
		return ErrNotReady
	}
	err := l.Clear()
	err = multierr.Append(err, l.Print(line1))
	err = multierr.Append(err, l.command(CmdSecondLine))
	err = multierr.Append(err, l.Print(line2))
	return err
}

// Close releases the six lines. The controller keeps showing its last frame.
func (l *Driver) Close() error {
	var err error
	for _, p := range l.pins.all() {
		err = multierr.Append(err, l.gpio.Unexport(p))
	}
	l.state = Uninitialized
	return err
}
