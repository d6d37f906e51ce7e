package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/m-mizutani/masq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level:       LevelTrace,
		ReplaceAttr: NewReplaceAttr(),
	}))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}

	return entries
}

func TestFromContext(t *testing.T) {
	t.Run("nil context falls back to default", func(t *testing.T) {
		//nolint:staticcheck // nil context is the case under test
		assert.Same(t, defaultLogger, FromContext(nil))
	})

	t.Run("empty context falls back to default", func(t *testing.T) {
		assert.Same(t, defaultLogger, FromContext(context.Background()))
	})

	t.Run("stored logger is returned", func(t *testing.T) {
		logger := slog.New(slog.DiscardHandler)
		ctx := WithContext(context.Background(), logger)

		assert.Same(t, logger, FromContext(ctx))
	})
}

func TestWith_NoAttrsKeepsContext(t *testing.T) {
	ctx := WithContext(context.Background(), slog.New(slog.DiscardHandler))

	assert.Equal(t, ctx, With(ctx))
}

func TestRequestScopedIDs(t *testing.T) {
	var buf bytes.Buffer

	ctx := WithContext(context.Background(), jsonLogger(&buf))
	ctx = WithRequestID(ctx, "req-7f3a")
	ctx = WithCorrelationID(ctx, "corr-19c2")
	ctx = WithTraceID(ctx, "4bf92f3577b34da6a3ce929d0e0e4736")
	ctx = With(ctx, slog.String(KeyBackend, "sqlite"))

	FromContext(ctx).Info("quote recorded")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7f3a", entries[0][KeyRequestID])
	assert.Equal(t, "corr-19c2", entries[0][KeyCorrelationID])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[0][KeyTraceID])
	assert.Equal(t, "sqlite", entries[0][KeyBackend])
}

func TestRequestScopedIDs_DoNotLeakToParent(t *testing.T) {
	var buf bytes.Buffer

	parent := WithContext(context.Background(), jsonLogger(&buf))
	_ = WithRequestID(parent, "req-child")

	FromContext(parent).Info("parent")

	assert.NotContains(t, buf.String(), "req-child")
}

func TestSetDefault(t *testing.T) {
	prevPkg, prevSlog := defaultLogger, slog.Default()
	t.Cleanup(func() {
		defaultLogger = prevPkg
		slog.SetDefault(prevSlog)
	})

	var buf bytes.Buffer
	logger := jsonLogger(&buf)
	SetDefault(logger)

	assert.Same(t, logger, FromContext(context.Background()))
	assert.Same(t, logger, slog.Default())
}

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{
			format: "json",
			check: func(t *testing.T, out string) {
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &entry))
				assert.Equal(t, "artist onboarded", entry["msg"])
				assert.Equal(t, "artistly", entry["service_name"])
				assert.Equal(t, "1.4.0", entry["service_version"])
			},
		},
		{
			format: "text",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, `msg="artist onboarded"`)
				assert.Contains(t, out, "service_name=artistly")
			},
		},
		{
			format: "pretty",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "artist onboarded")
				assert.Contains(t, out, "artistly")
			},
		},
		{
			format: "",
			check: func(t *testing.T, out string) {
				assert.True(t, json.Valid([]byte(out)), "unknown format defaults to json")
			},
		},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			var buf bytes.Buffer

			logger := NewWithWriter(&Config{
				Level:   "info",
				Format:  tt.format,
				Service: "artistly",
				Version: "1.4.0",
			}, &buf)
			logger.Info("artist onboarded")

			tt.check(t, strings.TrimSpace(buf.String()))
		})
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{Level: "warn", Format: "json"}, &buf)
	logger.Info("dropped")
	logger.Warn("fallback to seed list")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "fallback to seed list")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)
	logger.Log(context.Background(), LevelTrace, "raw value", slog.String("key", "artistly_theme"))

	assert.Contains(t, buf.String(), "artistly_theme")
}

func TestNewWithWriter_RollingFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "artistly.log")

	var console bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "pretty",
		Service: "artistly",
		File: FileConfig{
			Enabled:    true,
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 1,
			MaxAgeDays: 1,
		},
	}, &console)

	logger.Info("quote requested", slog.Int("artist_index", 3))

	assert.Contains(t, console.String(), "quote requested")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry), "file records are json")
	assert.Equal(t, "quote requested", entry["msg"])
	assert.InDelta(t, 3, entry["artist_index"], 0)
}

func TestNewWithWriter_RedactsEveryFormat(t *testing.T) {
	for _, format := range []string{"json", "text", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer

			logger := NewWithWriter(&Config{Level: "debug", Format: format}, &buf)
			logger.Info("remote storage configured",
				slog.String("auth_token", "kv-secret-123"),
				slog.String("base_url", "https://kv.internal"),
			)

			assert.Contains(t, buf.String(), "remote storage configured")
			assert.Contains(t, buf.String(), "https://kv.internal")
			assert.NotContains(t, buf.String(), "kv-secret-123")
		})
	}
}

func TestPrettyHandler_RedactsGroupedAndBoundAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{Level: "info", Format: "pretty"}, &buf).
		With(slog.String("password", "hunter2")).
		WithGroup("remote")
	logger.Info("connecting", slog.String("token", "abc.def"))

	assert.NotContains(t, buf.String(), "hunter2")
	assert.NotContains(t, buf.String(), "abc.def")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want log.Level
	}{
		{LevelTrace, log.DebugLevel},
		{slog.LevelDebug, log.DebugLevel},
		{slog.LevelInfo, log.InfoLevel},
		{slog.LevelWarn, log.WarnLevel},
		{slog.LevelError, log.ErrorLevel},
		{slog.LevelError + 4, log.ErrorLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slogToCharmLevel(tt.in), "level %v", tt.in)
	}
}

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	return h.err
}

func TestMultiHandler(t *testing.T) {
	t.Run("enabled when any handler is", func(t *testing.T) {
		quiet := slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})
		chatty := slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

		assert.True(t, NewMultiHandler(quiet, chatty).Enabled(context.Background(), slog.LevelDebug))
		assert.False(t, NewMultiHandler(quiet).Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("writes to each enabled handler", func(t *testing.T) {
		var errBuf, allBuf bytes.Buffer
		errOnly := slog.NewJSONHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError})
		all := slog.NewJSONHandler(&allBuf, nil)

		logger := slog.New(NewMultiHandler(errOnly, all)).
			With(slog.String("service_name", "artistly")).
			WithGroup("store")
		logger.Info("loaded", slog.Int("artists", 8))

		assert.Empty(t, errBuf.String())
		assert.Contains(t, allBuf.String(), `"service_name":"artistly"`)
		assert.Contains(t, allBuf.String(), `"store":{"artists":8}`)
	})

	t.Run("joins handler errors", func(t *testing.T) {
		errA := errors.New("disk full")
		errB := errors.New("pipe closed")
		base := slog.NewJSONHandler(&bytes.Buffer{}, nil)

		h := NewMultiHandler(failingHandler{base, errA}, failingHandler{base, errB})
		err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0))

		require.ErrorIs(t, err, errA)
		require.ErrorIs(t, err, errB)
	})
}

func TestNewReplaceAttr(t *testing.T) {
	tests := []struct {
		name   string
		attr   slog.Attr
		redact bool
	}{
		{"password field", slog.String("password", "hunter2"), true},
		{"auth token field", slog.String("auth_token", "kv-token"), true},
		{"api key field", slog.String("api_key", "k-123"), true},
		{"secret prefix", slog.String("secret_config", "sensitive"), true},
		{"jwt value", slog.String("header", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJtYW5hZ2VyIn0.c2ln"), true},
		{"bearer value", slog.String("forwarded", "Bearer abc123xyz"), true},
		{"basic value", slog.String("forwarded", "Basic dXNlcjpwYXNz"), true},
		{"artist name", slog.String("name", "Priya Rao"), false},
		{"storage key", slog.String("key", "artistly_quotes"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			jsonLogger(&buf).Info("x", tt.attr)

			value := tt.attr.Value.String()
			assert.Contains(t, buf.String(), tt.attr.Key)
			if tt.redact {
				assert.NotContains(t, buf.String(), value)
			} else {
				assert.Contains(t, buf.String(), value)
			}
		})
	}
}

func TestNewReplaceAttr_ExtraOptions(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: NewReplaceAttr(masq.WithFieldName("phone")),
	}))
	logger.Info("contact", slog.String("phone", "+91 98450 12345"))

	assert.NotContains(t, buf.String(), "98450")
}
