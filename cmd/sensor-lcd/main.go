// Command sensor-lcd samples a BMP280 barometer and a light sensor, logs the
// readings to CSV and shows them on an HD44780 character LCD.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sweeney/sensor-lcd/internal/app"
	"github.com/sweeney/sensor-lcd/internal/config"
	"github.com/sweeney/sensor-lcd/internal/csvlog"
	"github.com/sweeney/sensor-lcd/internal/gpio"
	"github.com/sweeney/sensor-lcd/internal/lcd"
	"github.com/sweeney/sensor-lcd/internal/logging"
	"github.com/sweeney/sensor-lcd/internal/sensor"
)

var version = "dev"
var appName = "sensor-lcd"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg, version, appName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
	logger.Info("shut down")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	drv, err := newGPIODriver(cfg, logger)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer drv.Close()

	// The bus is opened by the sampler on its first cycle; until it comes
	// up the other tasks run without it.
	baro := sensor.NewBMX280(cfg.I2CBus, cfg.BMP280Address, logger)
	defer func() {
		if err := baro.Close(); err != nil {
			logger.Warn("barometer release failed", "error", err)
		}
	}()

	return serve(ctx, cfg, logger, drv, baro, sensor.NewIIOADC(cfg.ADCDeviceDir))
}

// serve initializes the LCD and runs the tasks until ctx is cancelled.
// LCD line failures are logged; the tasks run regardless.
func serve(ctx context.Context, cfg config.Config, logger *slog.Logger, drv gpio.Driver, baro sensor.Barometer, adc sensor.ADC) error {
	panel := lcd.New(drv, lcdPins(cfg.LCDPins), lcd.Options{
		Columns: cfg.LCDColumns,
		Logger:  logger,
	})
	if err := panel.Init(); err != nil {
		logger.Warn("lcd init incomplete, continuing", "error", err)
	}
	defer func() {
		if err := panel.Close(); err != nil {
			logger.Warn("lcd release failed", "error", err)
		}
	}()

	a := app.New(app.Deps{
		Barometer:    baro,
		SensorConfig: sensor.DefaultConfig,
		ADC:          adc,
		ADCChannel:   cfg.ADCChannel,
		Display:      panel,
		Recorder:     csvlog.New(cfg.CSVPath),
		Logger:       logger,
	})

	logger.Info("started",
		"gpio_backend", cfg.GPIOBackend,
		"lcd_pins", cfg.LCDPins,
		"bmp280_address", fmt.Sprintf("0x%02x", cfg.BMP280Address),
		"adc_channel", cfg.ADCChannel,
		"csv", cfg.CSVPath,
	)
	return a.Run(ctx)
}

func newGPIODriver(cfg config.Config, logger *slog.Logger) (gpio.Driver, error) {
	switch cfg.GPIOBackend {
	case config.BackendCdev:
		d, err := gpio.NewCdevDriver(cfg.GPIOChip, logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.BackendSysfs, "":
		return gpio.NewSysfsDriver(cfg.GPIOSysfsRoot, logger), nil
	}
	return nil, fmt.Errorf("unknown gpio backend %q", cfg.GPIOBackend)
}

func lcdPins(p config.LCDPins) lcd.Pins {
	return lcd.Pins{
		RS: gpio.Pin(p.RS),
		E:  gpio.Pin(p.E),
		D4: gpio.Pin(p.D4),
		D5: gpio.Pin(p.D5),
		D6: gpio.Pin(p.D6),
		D7: gpio.Pin(p.D7),
	}
}
