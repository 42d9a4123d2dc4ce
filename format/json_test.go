// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"encoding/json"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, payload []byte) map[string]any {
	t.Helper()
	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	return decoded
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	entryTime := time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC)

	t.Run("base document", func(t *testing.T) {
		t.Parallel()

		payload := JSON{}.Format(Entry{
			Time:    entryTime,
			Level:   INFO,
			Logger:  "app.db",
			Message: "connection established",
		})

		decoded := decodeEntry(t, payload)
		assert.Equal(t, "2025-03-14T09:26:53.589Z", decoded["@timestamp"])
		assert.Equal(t, "INFO", decoded["level"])
		assert.Equal(t, "app.db", decoded["logger"])
		assert.Equal(t, "connection established", decoded["message"])
		assert.Equal(t, Hostname(), decoded["host"])
		assert.NotContains(t, decoded, "exception")
		assert.NotContains(t, decoded, "file")
	})

	t.Run("message with quotes newlines and unicode", func(t *testing.T) {
		t.Parallel()

		message := "user \"bøb\" said:\n\thello world"
		payload := JSON{}.Format(Entry{Time: entryTime, Level: DEBUG, Logger: "app", Message: message})

		decoded := decodeEntry(t, payload)
		assert.Equal(t, message, decoded["message"])
	})

	t.Run("attributes of every kind", func(t *testing.T) {
		t.Parallel()

		payload := JSON{}.Format(Entry{
			Time:    entryTime,
			Level:   INFO,
			Logger:  "app",
			Message: "kinds",
			Attrs: []slog.Attr{
				slog.String("user", "bob"),
				slog.Int("attempt", 3),
				slog.Bool("retry", true),
				slog.Float64("ratio", 0.25),
				slog.Duration("elapsed", 1500*time.Millisecond),
				slog.Time("deadline", entryTime),
				slog.Group("request", slog.String("method", "GET"), slog.Int("status", 200)),
				slog.Any("cause", assert.AnError),
			},
		})

		decoded := decodeEntry(t, payload)
		assert.Equal(t, "bob", decoded["user"])
		assert.Equal(t, float64(3), decoded["attempt"])
		assert.Equal(t, true, decoded["retry"])
		assert.Equal(t, 0.25, decoded["ratio"])
		assert.Equal(t, "1.5s", decoded["elapsed"])
		assert.Equal(t, map[string]any{"method": "GET", "status": float64(200)}, decoded["request"])
		assert.Equal(t, assert.AnError.Error(), decoded["cause"])
	})

	t.Run("reserved keys win over attributes", func(t *testing.T) {
		t.Parallel()

		payload := JSON{}.Format(Entry{
			Time:    entryTime,
			Level:   WARNING,
			Logger:  "app",
			Message: "the real message",
			Attrs: []slog.Attr{
				slog.String("level", "FORGED"),
				slog.String("message", "forged message"),
				slog.String("host", "forged-host"),
			},
		})

		decoded := decodeEntry(t, payload)
		assert.Equal(t, "WARNING", decoded["level"])
		assert.Equal(t, "the real message", decoded["message"])
		assert.Equal(t, Hostname(), decoded["host"])
	})

	t.Run("caller metadata", func(t *testing.T) {
		t.Parallel()

		var pcs [1]uintptr
		runtime.Callers(1, pcs[:])
		payload := JSON{}.Format(Entry{
			Time:    entryTime,
			Level:   INFO,
			Logger:  "app",
			Message: "with caller",
			PC:      pcs[0],
		})

		decoded := decodeEntry(t, payload)
		assert.Contains(t, decoded["file"], "json_test.go")
		assert.Contains(t, decoded["function"], "TestJSONFormat")
		assert.Greater(t, decoded["line"], float64(0))
	})

	t.Run("exception section", func(t *testing.T) {
		t.Parallel()

		payload := JSON{}.Format(Entry{
			Time:    entryTime,
			Level:   ERROR,
			Logger:  "app",
			Message: "request failed",
			Err:     errors.Wrap(assert.AnError, "calling upstream"),
		})

		decoded := decodeEntry(t, payload)
		exception, ok := decoded["exception"].(map[string]any)
		require.True(t, ok, "exception section missing: %s", payload)
		assert.NotEmpty(t, exception["type"])
		assert.Equal(t, "calling upstream: "+assert.AnError.Error(), exception["message"])
		assert.Contains(t, exception["stack_trace"], "json_test.go")
	})

	t.Run("field order starts with the timestamp", func(t *testing.T) {
		t.Parallel()

		payload := JSON{}.Format(Entry{Time: entryTime, Level: INFO, Logger: "app", Message: "ordered"})
		assert.True(t, len(payload) > 2 && payload[0] == '{')
		assert.Equal(t, `{"@timestamp":`, string(payload[:14]))
	})
}
