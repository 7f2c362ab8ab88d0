package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls a request-scoped attribute, such as the request ID,
// out of ctx.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// handler adds extracted request attributes to each record and masks email
// addresses in the message and every attribute before the record reaches next.
// Extractors run per call, so values attached to the context later are seen.
type handler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func newHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &handler{next: next, extractors: clean}
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, RedactString(rec.Message), rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			out.AddAttrs(redactAttr(attr))
		}
	}
	return h.next.Handle(ctx, out)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(a)
	}
	return &handler{next: h.next.WithAttrs(clean), extractors: h.extractors}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{next: h.next.WithGroup(name), extractors: h.extractors}
}
