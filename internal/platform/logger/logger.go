package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger. JSON output so gate decisions and
// alert activity are machine-ingestable; level comes from LOG_LEVEL.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
