// Package app wires the sensors, shared display state, CSV log and LCD into
// the four periodic tasks: barometer sampler, light sampler, toggle and
// display refresh.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sweeney/sensor-lcd/internal/display"
	"github.com/sweeney/sensor-lcd/internal/scheduler"
	"github.com/sweeney/sensor-lcd/internal/sensor"
)

// Display renders two lines of text.
type Display interface {
	DisplayTwoLines(line1, line2 string) error
}

// Recorder persists samples.
type Recorder interface {
	AppendTempPressure(celsius, pascals float64) error
	AppendLight(raw int) error
}

// Periods are the task intervals.
type Periods struct {
	TempPressure time.Duration
	Light        time.Duration
	Refresh      time.Duration
	Toggle       time.Duration
}

// DefaultPeriods returns the intervals the board runs with.
func DefaultPeriods() Periods {
	return Periods{
		TempPressure: 500 * time.Millisecond,
		Light:        time.Second,
		Refresh:      time.Second,
		Toggle:       time.Second,
	}
}

// Deps are the collaborators an App drives.
type Deps struct {
	Barometer    sensor.Barometer
	SensorConfig sensor.Config
	ADC          sensor.ADC
	ADCChannel   int
	Display      Display
	Recorder     Recorder
	Logger       *slog.Logger
}

// App owns the shared display state and the task steps.
type App struct {
	deps    Deps
	state   *display.State
	logger  *slog.Logger
	periods Periods

	// Touched only by the barometer task.
	baroConfigured bool
}

// New creates an App with DefaultPeriods.
func New(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		deps:    deps,
		state:   display.NewState(),
		logger:  logger,
		periods: DefaultPeriods(),
	}
}

// State returns the shared display state.
func (a *App) State() *display.State {
	return a.state
}

// SampleTempPressure configures the barometer on first use, reads one
// calibrated sample, publishes it to the display state and logs it.
// A failed read is logged and the cycle skipped; a read reporting
// sensor.ErrNotConfigured makes the next cycle configure again.
func (a *App) SampleTempPressure(ctx context.Context) {
	if !a.baroConfigured {
		if err := a.deps.Barometer.Configure(a.deps.SensorConfig); err != nil {
			a.logger.Warn("barometer configure failed", "error", err)
			return
		}
		a.baroConfigured = true
		a.logger.Info("barometer configured",
			"temp_oversampling", a.deps.SensorConfig.TempOversampling,
			"pressure_oversampling", a.deps.SensorConfig.PressureOversampling,
			"filter", a.deps.SensorConfig.Filter,
			"output_data_rate", a.deps.SensorConfig.OutputDataRate,
		)
	}

	r, err := a.deps.Barometer.ReadCalibrated()
	if err != nil {
		a.logger.Warn("barometer read failed", "error", err)
		if errors.Is(err, sensor.ErrNotConfigured) {
			a.baroConfigured = false
		}
		return
	}

	a.state.SetTempPressure(display.FormatTemperature(r.TemperatureC), display.FormatPressure(r.PressurePa))
	a.logger.Debug("barometer sample", "temperature_c", r.TemperatureC, "pressure_pa", r.PressurePa)

	if err := a.deps.Recorder.AppendTempPressure(r.TemperatureC, r.PressurePa); err != nil {
		a.logger.Warn("csv append failed", "error", err)
	}
}

// SampleLight reads the light ADC channel and publishes it. A failed read
// is logged but its failure value is still displayed and recorded.
func (a *App) SampleLight(ctx context.Context) {
	v, err := a.deps.ADC.ReadChannel(a.deps.ADCChannel)
	if err != nil {
		a.logger.Warn("adc read failed", "channel", a.deps.ADCChannel, "error", err)
	}

	a.state.SetLight(display.FormatLight(v))
	a.logger.Debug("light sample", "raw", v)

	if err := a.deps.Recorder.AppendLight(v); err != nil {
		a.logger.Warn("csv append failed", "error", err)
	}
}

// Toggle flips which pair of readings the display shows.
func (a *App) Toggle(ctx context.Context) {
	n := a.state.Toggle()
	a.logger.Debug("toggle", "count", n)
}

// Refresh draws the selected pair. The state lock is released before any
// LCD I/O.
func (a *App) Refresh(ctx context.Context) {
	line1, line2 := a.state.Snapshot().Lines()
	if err := a.deps.Display.DisplayTwoLines(line1, line2); err != nil {
		a.logger.Warn("lcd refresh failed", "error", err)
		return
	}
	a.logger.Debug("lcd refreshed", "line1", line1, "line2", line2)
}

// Tasks returns the four periodic tasks.
func (a *App) Tasks() []scheduler.Task {
	return []scheduler.Task{
		{Name: "temp-pressure", Period: a.periods.TempPressure, Priority: scheduler.PriorityHigh, Step: a.SampleTempPressure},
		{Name: "light", Period: a.periods.Light, Priority: scheduler.PriorityLow, Step: a.SampleLight},
		{Name: "refresh", Period: a.periods.Refresh, Priority: scheduler.PriorityDefault, Step: a.Refresh},
		{Name: "toggle", Period: a.periods.Toggle, Priority: scheduler.PriorityDefault, Step: a.Toggle},
	}
}

// Run runs the tasks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting tasks")
	return scheduler.Run(ctx, a.logger, a.Tasks()...)
}
