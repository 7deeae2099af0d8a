package gpio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultSysfsRoot is the kernel's legacy GPIO sysfs directory.
const DefaultSysfsRoot = "/sys/class/gpio"

// SysfsDriver drives lines through the legacy sysfs interface.
// Each operation opens the control file, performs a single write and closes it.
type SysfsDriver struct {
	root   string
	logger *slog.Logger
}

// NewSysfsDriver creates a driver rooted at root (DefaultSysfsRoot when empty).
func NewSysfsDriver(root string, logger *slog.Logger) *SysfsDriver {
	if root == "" {
		root = DefaultSysfsRoot
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SysfsDriver{root: root, logger: logger.With("component", "gpio", "backend", "sysfs")}
}

func (d *SysfsDriver) lineDir(pin Pin) string {
	return filepath.Join(d.root, "gpio"+pin.String())
}

// Export makes the line available. If the line directory already exists it
// is unexported first so no stale claim from a previous process survives.
func (d *SysfsDriver) Export(pin Pin) error {
	if _, err := os.Stat(d.lineDir(pin)); err == nil {
		d.logger.Debug("line already exported, re-exporting", "pin", pin)
		// Unexport failures are logged inside; the export below is still attempted.
		_ = d.Unexport(pin)
	}
	if err := d.write(filepath.Join(d.root, "export"), pin.String()); err != nil {
		d.logger.Warn("export failed", "pin", pin, "error", err)
		return fmt.Errorf("export %s: %w", pin, err)
	}
	return nil
}

// Unexport releases the line.
func (d *SysfsDriver) Unexport(pin Pin) error {
	if err := d.write(filepath.Join(d.root, "unexport"), pin.String()); err != nil {
		d.logger.Warn("unexport failed", "pin", pin, "error", err)
		return fmt.Errorf("unexport %s: %w", pin, err)
	}
	return nil
}

// SetDirection writes "in" or "out" to the line's direction file.
func (d *SysfsDriver) SetDirection(pin Pin, dir Direction) error {
	if dir != In && dir != Out {
		return fmt.Errorf("gpio: invalid direction %q", dir)
	}
	if err := d.write(filepath.Join(d.lineDir(pin), "direction"), string(dir)); err != nil {
		d.logger.Warn("set direction failed", "pin", pin, "direction", dir, "error", err)
		return fmt.Errorf("set direction %s: %w", pin, err)
	}
	return nil
}

// Write writes "0" or "1" to the line's value file.
func (d *SysfsDriver) Write(pin Pin, level Level) error {
	if err := d.write(filepath.Join(d.lineDir(pin), "value"), level.String()); err != nil {
		d.logger.Warn("write failed", "pin", pin, "level", level, "error", err)
		return fmt.Errorf("write %s: %w", pin, err)
	}
	return nil
}

// Close is a no-op; sysfs holds no open descriptors between operations.
func (d *SysfsDriver) Close() error {
	return nil
}

// write performs one write to an existing control file. Control files are
// never created: a missing file means the line or interface is unavailable.
func (d *SysfsDriver) write(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	n, err := f.WriteString(value)
	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if n != len(value) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrWriteFailure, n, len(value))
	}
	if closeErr != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, closeErr)
	}
	return nil
}
