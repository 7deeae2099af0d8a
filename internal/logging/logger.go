// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"

	"github.com/sweeney/sensor-lcd/internal/config"
)

// devTimeFormat keeps enough precision to tell apart the 500 ms sampler
// cycles on a console.
const devTimeFormat = "15:04:05.000"

// New returns the daemon logger writing to w. In dev it is tint's coloured
// text, with source locations only at debug level; otherwise it is JSON
// carrying the version and environment for the journal.
func New(w io.Writer, cfg config.Config, version, appName string) *slog.Logger {
	if cfg.AppEnv == "dev" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  cfg.LogLevel <= slog.LevelDebug,
			TimeFormat: devTimeFormat,
		})).With("app", appName)
	}

	attrs := []slog.Attr{
		slog.String("app", appName),
		slog.String("version", version),
		slog.String("env", cfg.AppEnv),
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}).WithAttrs(attrs))
}
