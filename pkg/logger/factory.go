package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config holds base logger settings.
type Config struct {
	Output io.Writer  // defaults to os.Stdout
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

func (c Config) writer() io.Writer {
	if c.Output == nil {
		return os.Stdout
	}
	return c.Output
}

func (c Config) jsonHandler() slog.Handler {
	return slog.NewJSONHandler(c.writer(), &slog.HandlerOptions{Level: c.Level})
}

// New creates a JSON-formatted logger with email redaction and optional context extractors.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(newHandler(cfg.jsonHandler(), extractors...))
}
