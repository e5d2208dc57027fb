package geoart

import (
	"log/slog"

	"github.com/mhdeeb/geo-art/internal/logging"
)

// SetLogger configures the logger for geoart and all its sub-packages.
// By default, geoart produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use. Pass nil to disable logging.
//
// Log levels used by geoart:
//   - [slog.LevelDebug]: shader compiles, buffer uploads, skipped ticks
//   - [slog.LevelInfo]: lifecycle events (loop started, client connected, file written)
//   - [slog.LevelWarn]: rejected expressions and other recoverable failures
//   - [slog.LevelError]: render or capture failures inside the loop
//
// Example:
//
//	geoart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by geoart.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
