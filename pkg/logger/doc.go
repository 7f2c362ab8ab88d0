// Package logger provides structured logging with context extraction, email
// redaction and optional Sentry integration.
//
// # Basic Usage
//
//	requestIDExtractor := func(ctx context.Context) (slog.Attr, bool) {
//		if reqID, ok := ctx.Value(requestIDKey{}).(string); ok && reqID != "" {
//			return slog.String("request_id", reqID), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(logger.Config{Level: slog.LevelInfo}, requestIDExtractor)
//	log.InfoContext(ctx, "subscribed", slog.String("email", "jane@example.com"))
//	// {"level":"INFO","msg":"subscribed","email":"j***@example.com","request_id":"abc-123"}
//
// # Redaction
//
// Every record passes through the package handler. Email addresses in the message,
// in string attributes, in nested groups and in error values are masked down to
// the first character of the local part. Subscriber addresses therefore never
// reach stdout or Sentry in clear text.
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(cfg, logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	}, requestIDExtractor)
//
// Errors create Sentry issues, warnings are stored as logs. If the DSN is empty
// or initialization fails, logging continues on the base output only.
//
// # Architecture
//
// Records flow through one handler that appends extracted attributes and masks
// email addresses, then into either the JSON handler or a fan-out to JSON and
// Sentry. A Sentry failure does not stop the JSON output.
package logger
