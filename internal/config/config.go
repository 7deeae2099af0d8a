// Package config loads daemon configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// GPIO backends.
const (
	BackendSysfs = "sysfs"
	BackendCdev  = "cdev"
)

// LCDPins are the platform pin numbers for each LCD line role.
type LCDPins struct {
	RS, E, D4, D5, D6, D7 int
}

// Config is the daemon configuration. Every field has a default matching the
// board wiring, so an empty environment yields a runnable Config.
type Config struct {
	AppEnv   string
	LogLevel slog.Level

	GPIOBackend   string
	GPIOSysfsRoot string
	GPIOChip      string

	LCDPins    LCDPins
	LCDColumns int

	I2CBus        string
	BMP280Address uint16
	ADCDeviceDir  string
	ADCChannel    int
	CSVPath       string
}

// LoadFromEnv reads Config from the environment. Unset or blank variables
// take their defaults; malformed or out-of-range values are an error.
func LoadFromEnv() (Config, error) {
	appEnv := env("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := envLevel("LOG_LEVEL", slog.LevelInfo)
	if err != nil {
		return Config{}, err
	}

	backend := env("GPIO_BACKEND", BackendSysfs)
	switch backend {
	case BackendSysfs, BackendCdev:
	default:
		return Config{}, fmt.Errorf("invalid GPIO_BACKEND %q (allowed: sysfs, cdev)", backend)
	}

	var pins LCDPins
	for _, p := range []struct {
		name string
		def  int
		dst  *int
	}{
		{"LCD_PIN_RS", 67, &pins.RS},
		{"LCD_PIN_E", 68, &pins.E},
		{"LCD_PIN_D4", 44, &pins.D4},
		{"LCD_PIN_D5", 26, &pins.D5},
		{"LCD_PIN_D6", 46, &pins.D6},
		{"LCD_PIN_D7", 65, &pins.D7},
	} {
		v, err := envInt(p.name, p.def)
		if err != nil {
			return Config{}, err
		}
		if v < 0 {
			return Config{}, fmt.Errorf("%s must not be negative, got %d", p.name, v)
		}
		*p.dst = v
	}
	if err := pins.validate(); err != nil {
		return Config{}, err
	}

	columns, err := envInt("LCD_COLS", 20)
	if err != nil {
		return Config{}, err
	}
	if columns <= 0 {
		return Config{}, fmt.Errorf("LCD_COLS must be positive, got %d", columns)
	}

	addrStr := env("BMP280_ADDRESS", "0x76")
	addr, err := strconv.ParseUint(addrStr, 0, 16)
	if err != nil {
		return Config{}, fmt.Errorf("invalid BMP280_ADDRESS %q: %w", addrStr, err)
	}

	channel, err := envInt("ADC_CHANNEL", 0)
	if err != nil {
		return Config{}, err
	}
	if channel < 0 {
		return Config{}, fmt.Errorf("ADC_CHANNEL must not be negative, got %d", channel)
	}

	return Config{
		AppEnv:        appEnv,
		LogLevel:      level,
		GPIOBackend:   backend,
		GPIOSysfsRoot: env("GPIO_SYSFS_ROOT", "/sys/class/gpio"),
		GPIOChip:      env("GPIO_CHIP", "gpiochip0"),
		LCDPins:       pins,
		LCDColumns:    columns,
		I2CBus:        strings.TrimSpace(os.Getenv("I2C_BUS")),
		BMP280Address: uint16(addr),
		ADCDeviceDir:  env("ADC_DEVICE_DIR", "/sys/bus/iio/devices/iio:device0"),
		ADCChannel:    channel,
		CSVPath:       env("CSV_PATH", "sensor_data.csv"),
	}, nil
}

// validate rejects wiring where two roles share a pin.
func (p LCDPins) validate() error {
	seen := map[int]string{}
	for _, r := range []struct {
		role string
		pin  int
	}{{"RS", p.RS}, {"E", p.E}, {"D4", p.D4}, {"D5", p.D5}, {"D6", p.D6}, {"D7", p.D7}} {
		if other, ok := seen[r.pin]; ok {
			return fmt.Errorf("LCD pins %s and %s both use pin %d", other, r.role, r.pin)
		}
		seen[r.pin] = r.role
	}
	return nil
}

func env(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func envInt(name string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

// envLevel accepts the slog level names in any case, with an optional
// offset such as "debug+2".
func envLevel(name string, def slog.Level) (slog.Level, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return l, nil
}
