package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, "json", &buf)

	logger.Debug("hidden")
	logger.Info("sent", Method("PATCH"), Status(200))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sent", entry["msg"])
	assert.Equal(t, "PATCH", entry["method"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(slog.LevelDebug, "", &buf).Debug("hello", URL("http://example.com/"))
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "url=http://example.com/")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, "json", &buf)

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))
	logger.FromContext(ctx).Info("tagged", Error(errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "boom", entry["error"])

	assert.Same(t, logger, logger.FromContext(context.Background()))
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("dropped") })
}
