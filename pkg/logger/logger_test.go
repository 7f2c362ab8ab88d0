package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sidequestplugins/gateway/pkg/logger"
)

type ctxKey struct{}

func extractor(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("request_id", v), true
	}
	return slog.Attr{}, false
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("adds extracted attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}, extractor)
		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")

		log.InfoContext(ctx, "hello")

		out := decode(t, &buf)
		require.Equal(t, "hello", out["msg"])
		require.Equal(t, "req-1", out["request_id"])
	})

	t.Run("skips nil extractors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}, nil, extractor)

		require.NotPanics(t, func() { log.Info("ok") })
		require.NotContains(t, decode(t, &buf), "request_id")
	})

	t.Run("respects level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf, Level: slog.LevelWarn})

		log.Info("dropped")
		require.Zero(t, buf.Len())

		log.Warn("kept")
		require.Equal(t, "kept", decode(t, &buf)["msg"])
	})

	t.Run("redacts emails", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}).With("owner", "owner@example.com")

		log.Error("failed for jane@example.com",
			slog.String("email", "jane@example.com"),
			slog.Any("error", errors.New("list rejected bob@example.org")),
			slog.Group("req", slog.String("to", "x@y.io")),
		)

		raw := buf.String()
		require.NotContains(t, raw, "jane@example.com")
		require.NotContains(t, raw, "bob@example.org")
		require.NotContains(t, raw, "owner@example.com")

		out := decode(t, &buf)
		require.Equal(t, "failed for j***@example.com", out["msg"])
		require.Equal(t, "j***@example.com", out["email"])
		require.Equal(t, "list rejected b***@example.org", out["error"])
		require.Equal(t, "o***@example.com", out["owner"])
		require.Equal(t, map[string]any{"to": "x***@y.io"}, out["req"])
	})
}

func TestNew_RedactsExtractedAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	subscriber := func(context.Context) (slog.Attr, bool) {
		return slog.String("subscriber", "jane@example.com"), true
	}
	logger.New(logger.Config{Output: &buf}, subscriber).Info("confirmed")

	require.Equal(t, "j***@example.com", decode(t, &buf)["subscriber"])
}

func TestNewWithSentryWithoutDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithSentry(logger.Config{Output: &buf}, logger.SentryConfig{}, extractor)
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-2")

	log.ErrorContext(ctx, "boom", slog.String("email", "a@b.co"))

	out := decode(t, &buf)
	require.Equal(t, "req-2", out["request_id"])
	require.Equal(t, "a***@b.co", out["email"])
}

func TestRedactEmail(t *testing.T) {
	t.Parallel()

	require.Equal(t, "j***@example.com", logger.RedactEmail("jane@example.com"))
	require.Equal(t, "not-an-email", logger.RedactEmail("not-an-email"))
	require.Equal(t, "@example.com", logger.RedactEmail("@example.com"))
	require.Equal(t, "plain text", logger.RedactString("plain text"))
	require.Equal(t, "a***@x.io and b***@y.dev", logger.RedactString("ann@x.io and bo@y.dev"))
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() { logger.NewNope().Error("ignored") })
}
