// Package csvlog appends timestamped sensor records to a CSV file.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// TimestampFormat is the layout of the first column, in local time.
const TimestampFormat = "2006-01-02 15:04:05"

// DefaultPath is the log file used when none is configured.
const DefaultPath = "sensor_data.csv"

// Logger appends records to a file. The file is opened per append, created
// if absent and never truncated. Safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New creates a Logger for path (DefaultPath when empty).
func New(path string) *Logger {
	if path == "" {
		path = DefaultPath
	}
	return &Logger{path: path, now: time.Now}
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Append writes one line: the current timestamp followed by fields.
func (l *Logger) Append(fields ...string) error {
	record := make([]string, 0, len(fields)+1)
	record = append(record, l.now().Format(TimestampFormat))
	record = append(record, fields...)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("csvlog: open %s: %w", l.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		f.Close()
		return fmt.Errorf("csvlog: write %s: %w", l.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csvlog: write %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csvlog: close %s: %w", l.path, err)
	}
	return nil
}

// AppendTempPressure logs a barometer sample with pressure in hPa.
func (l *Logger) AppendTempPressure(celsius, pascals float64) error {
	return l.Append(
		"Temperature", strconv.FormatFloat(celsius, 'f', 2, 64),
		"Pressure", strconv.FormatFloat(pascals/100, 'f', 2, 64),
	)
}

// AppendLight logs a raw light reading.
func (l *Logger) AppendLight(raw int) error {
	return l.Append("Light", strconv.Itoa(raw))
}
