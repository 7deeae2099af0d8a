package gpio

import (
	"fmt"
	"sync"
)

// OpKind identifies a recorded driver operation.
type OpKind string

const (
	OpExport       OpKind = "export"
	OpUnexport     OpKind = "unexport"
	OpSetDirection OpKind = "direction"
	OpWrite        OpKind = "write"
)

// Op is a single recorded driver operation.
// Value holds the direction for OpSetDirection and "0"/"1" for OpWrite.
type Op struct {
	Kind  OpKind
	Pin   Pin
	Value string
}

// FakeDriver is a test double that records operations and tracks line state.
// It enforces the export-then-direction-then-write order a real line needs.
type FakeDriver struct {
	mu sync.Mutex

	// Ops contains every successful operation in call order.
	Ops []Op

	// FailPins, if a pin is present, makes every operation on it fail with the mapped error.
	FailPins map[Pin]error

	// Closed tracks if Close was called.
	Closed bool

	exported  map[Pin]bool
	direction map[Pin]Direction
	levels    map[Pin]Level
}

// NewFakeDriver creates an empty FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		exported:  make(map[Pin]bool),
		direction: make(map[Pin]Direction),
		levels:    make(map[Pin]Level),
	}
}

func (f *FakeDriver) fail(pin Pin) error {
	if err, ok := f.FailPins[pin]; ok {
		return err
	}
	return nil
}

// Export marks the line exported. Re-exporting records an unexport first.
func (f *FakeDriver) Export(pin Pin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(pin); err != nil {
		return err
	}
	if f.exported[pin] {
		f.Ops = append(f.Ops, Op{Kind: OpUnexport, Pin: pin})
		delete(f.direction, pin)
	}
	f.exported[pin] = true
	f.Ops = append(f.Ops, Op{Kind: OpExport, Pin: pin})
	return nil
}

// Unexport releases the line.
func (f *FakeDriver) Unexport(pin Pin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(pin); err != nil {
		return err
	}
	delete(f.exported, pin)
	delete(f.direction, pin)
	f.Ops = append(f.Ops, Op{Kind: OpUnexport, Pin: pin})
	return nil
}

// SetDirection records the direction of an exported line.
func (f *FakeDriver) SetDirection(pin Pin, dir Direction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(pin); err != nil {
		return err
	}
	if !f.exported[pin] {
		return fmt.Errorf("set direction %s: %w", pin, ErrNotExported)
	}
	f.direction[pin] = dir
	f.Ops = append(f.Ops, Op{Kind: OpSetDirection, Pin: pin, Value: string(dir)})
	return nil
}

// Write records a level change on an exported output line.
func (f *FakeDriver) Write(pin Pin, level Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(pin); err != nil {
		return err
	}
	if !f.exported[pin] || f.direction[pin] != Out {
		return fmt.Errorf("write %s: %w", pin, ErrNotExported)
	}
	f.levels[pin] = level
	f.Ops = append(f.Ops, Op{Kind: OpWrite, Pin: pin, Value: level.String()})
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Level returns the last level written to pin.
func (f *FakeDriver) Level(pin Pin) Level {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels[pin]
}

// Exported reports whether pin is currently exported.
func (f *FakeDriver) Exported(pin Pin) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exported[pin]
}

// Recorded returns a copy of the recorded operations.
func (f *FakeDriver) Recorded() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Op(nil), f.Ops...)
}

// Reset clears recorded operations but keeps line state.
func (f *FakeDriver) Reset() {
	f.mu.Lock()
	f.Ops = nil
	f.Closed = false
	f.mu.Unlock()
}
