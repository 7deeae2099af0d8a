package sensor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultIIODevice is the first Industrial I/O device, the SoC ADC on the board.
const DefaultIIODevice = "/sys/bus/iio/devices/iio:device0"

// IIOADC reads raw channel values from an IIO device directory.
type IIOADC struct {
	dir string
}

// NewIIOADC creates an ADC reader for dir (DefaultIIODevice when empty).
func NewIIOADC(dir string) *IIOADC {
	if dir == "" {
		dir = DefaultIIODevice
	}
	return &IIOADC{dir: dir}
}

// ReadChannel reads in_voltage<channel>_raw.
func (a *IIOADC) ReadChannel(channel int) (int, error) {
	path := filepath.Join(a.dir, fmt.Sprintf("in_voltage%d_raw", channel))
	b, err := os.ReadFile(path)
	if err != nil {
		return ADCFailure, fmt.Errorf("adc channel %d: %w: %v", channel, ErrResourceUnavailable, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return ADCFailure, fmt.Errorf("adc channel %d: %w: %v", channel, ErrParseFailure, err)
	}
	return v, nil
}
