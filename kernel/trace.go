package kernel

import (
	"context"
	"log/slog"
)

// LevelTrace is the log level of per-event simulation traces.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a simulation event.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
