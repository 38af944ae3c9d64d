package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"metrolive.dev/internal/appconf"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with proper configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("fleet advanced",
			slog.String("component", "simulator"),
			slog.Int("trains", 12))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"fleet advanced"`)
		assert.Contains(t, output, `"component":"simulator"`)
		assert.Contains(t, output, `"trains":12`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("production writes JSON", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, appconf.Production, false).Info("hello")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("development writes text", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, appconf.Development, false).Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, appconf.Development, true).Debug("tick")
		assert.Contains(t, buf.String(), "msg=tick")

		buf.Reset()
		NewLogger(&buf, appconf.Development, false).Debug("tick")
		assert.Empty(t, buf.String())
	})
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError creates structured error log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "delivery failed", assert.AnError,
			slog.String("subscriber", "abc"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"delivery failed"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"subscriber":"abc"`)
	})

	t.Run("LogOperation skips zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "broadcast_completed",
			slog.Int("delivered", 3),
			slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"broadcast_completed"`)
		assert.Contains(t, output, `"delivered":3`)
		assert.NotContains(t, output, `"duration"`)

		buf.Reset()
		LogOperation(logger, "broadcast_completed", slog.Duration("duration", time.Millisecond))
		assert.Contains(t, buf.String(), `"duration"`)
	})

	t.Run("LogHTTPRequest logs request details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogHTTPRequest(logger, "GET", "/api/trains/live", 200, 12.5,
			slog.String("user_agent", "test-agent"))

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"GET"`)
		assert.Contains(t, output, `"path":"/api/trains/live"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":12.5`)
	})

	t.Run("helpers tolerate nil loggers", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "x", assert.AnError)
			LogOperation(nil, "x")
			LogHTTPRequest(nil, "GET", "/", 200, 1)
		})
	})

	t.Run("ForComponent tags records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := ForComponent(NewStructuredLogger(&buf, slog.LevelInfo), "scheduler")
		logger.Info("started")
		assert.Contains(t, buf.String(), `"component":"scheduler"`)
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("stores and retrieves logger from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithLogger(context.Background(), logger)
		FromContext(ctx).Info("from context")

		assert.Contains(t, buf.String(), "from context")
	})

	t.Run("returns default logger when not in context", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})
}
