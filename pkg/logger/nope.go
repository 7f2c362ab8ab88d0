package logger

import "log/slog"

// NewNope creates a no-op logger that discards all output.
// Handlers fall back to it when no logger is injected.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
