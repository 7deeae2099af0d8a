package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sweeney/sensor-lcd/internal/app"
	"github.com/sweeney/sensor-lcd/internal/csvlog"
	"github.com/sweeney/sensor-lcd/internal/gpio"
	"github.com/sweeney/sensor-lcd/internal/lcd"
	"github.com/sweeney/sensor-lcd/internal/sensor"
)

// replay reassembles the bytes the controller latched from recorded writes.
// Each entry is prefixed with 'C' for instructions or 'D' for data.
func replay(t *testing.T, ops []gpio.Op, pins lcd.Pins) []string {
	t.Helper()
	levels := map[gpio.Pin]bool{}
	var nibbles []byte
	var rs []bool
	for _, op := range ops {
		if op.Kind != gpio.OpWrite {
			continue
		}
		high := op.Value == "1"
		if op.Pin == pins.E && high && !levels[pins.E] {
			var n byte
			for i, p := range []gpio.Pin{pins.D4, pins.D5, pins.D6, pins.D7} {
				if levels[p] {
					n |= 1 << i
				}
			}
			nibbles = append(nibbles, n)
			rs = append(rs, levels[pins.RS])
		}
		levels[op.Pin] = high
	}
	if len(nibbles)%2 != 0 {
		t.Fatalf("odd number of nibbles: %d", len(nibbles))
	}

	var out []string
	var text []byte
	flush := func() {
		if len(text) > 0 {
			out = append(out, "D"+string(text))
			text = nil
		}
	}
	for i := 0; i < len(nibbles); i += 2 {
		b := nibbles[i]<<4 | nibbles[i+1]
		if rs[i] {
			text = append(text, b)
			continue
		}
		flush()
		out = append(out, fmt.Sprintf("C%02X", b))
	}
	flush()
	return out
}

// TestIntegrationFullFlow drives sensor fakes through the task steps into
// the real LCD driver and checks what the controller would have latched.
func TestIntegrationFullFlow(t *testing.T) {
	drv := gpio.NewFakeDriver()
	pins := lcd.DefaultPins()
	panel := lcd.New(drv, pins, lcd.Options{Sleep: func(time.Duration) {}})
	if err := panel.Init(); err != nil {
		t.Fatalf("lcd init: %v", err)
	}

	a := app.New(app.Deps{
		Barometer:    sensor.NewFakeBarometer(sensor.Reading{TemperatureC: 23.45, PressurePa: 101325.0}),
		SensorConfig: sensor.DefaultConfig,
		ADC:          sensor.NewFakeADC(-1),
		Display:      panel,
		Recorder:     csvlog.New(filepath.Join(t.TempDir(), "sensor_data.csv")),
	})
	ctx := context.Background()

	a.SampleTempPressure(ctx)
	a.SampleLight(ctx)

	// Toggle count 0: temperature/pressure.
	drv.Reset()
	a.Refresh(ctx)
	want := []string{"C01", "DTemp: 23.45 C", "CC0", "DPres: 1013.25 hPa"}
	if diff := cmp.Diff(want, replay(t, drv.Recorded(), pins)); diff != "" {
		t.Errorf("even frame mismatch (-want +got):\n%s", diff)
	}

	// Toggle count 1: light/pressure, with the failed light read shown as-is.
	a.Toggle(ctx)
	drv.Reset()
	a.Refresh(ctx)
	want = []string{"C01", "DLight: -1", "CC0", "DPres: 1013.25 hPa"}
	if diff := cmp.Diff(want, replay(t, drv.Recorded(), pins)); diff != "" {
		t.Errorf("odd frame mismatch (-want +got):\n%s", diff)
	}
}
