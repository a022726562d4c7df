package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler(t *testing.T) {
	t.Run("Records reach every enabled handler", func(t *testing.T) {
		var debugBuf, warnBuf bytes.Buffer
		h := NewMultiHandler(
			slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
			slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
		)
		l := slog.New(h).With("store.action", "move")

		l.Info("accepted")
		l.Warn("rejected")

		assert.Contains(t, debugBuf.String(), "accepted")
		assert.Contains(t, debugBuf.String(), "store.action=move")
		assert.Contains(t, debugBuf.String(), "rejected")
		assert.NotContains(t, warnBuf.String(), "accepted")
		assert.Contains(t, warnBuf.String(), "rejected")
	})

	t.Run("Enabled when any handler is", func(t *testing.T) {
		h := NewMultiHandler(
			slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
			slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)

		assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("Handler errors are joined", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewMultiHandler(slog.NewTextHandler(&buf, nil), failingHandler{})

		err := h.Handle(context.Background(), slog.NewRecord(testTime, slog.LevelInfo, "hello", 0))

		require.Error(t, err)
		assert.Contains(t, buf.String(), "hello")
	})
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn, false)

	l.Info("hidden")
	l.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

var testTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
