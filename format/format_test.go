// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"io"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	boom := errors.New("boom")

	record := slog.NewRecord(now, slog.LevelWarn, "something odd", 0)
	record.AddAttrs(
		slog.String("user", "bob"),
		slog.Any(ErrorKey, boom),
		slog.Int("attempt", 3),
	)

	entry := FromRecord("app.db", record)

	assert.Equal(t, now, entry.Time)
	assert.Equal(t, WARNING, entry.Level)
	assert.Equal(t, "app.db", entry.Logger)
	assert.Equal(t, "something odd", entry.Message)
	assert.Equal(t, boom, entry.Err)
	require.Len(t, entry.Attrs, 2)
	assert.Equal(t, "user", entry.Attrs[0].Key)
	assert.Equal(t, "attempt", entry.Attrs[1].Key)
}

func TestSplitError(t *testing.T) {
	t.Parallel()

	t.Run("no error attribute", func(t *testing.T) {
		t.Parallel()
		attrs := []slog.Attr{slog.String("user", "bob")}
		remaining, err := SplitError(attrs)
		assert.NoError(t, err)
		assert.Equal(t, attrs, remaining)
	})

	t.Run("error key with non error value stays", func(t *testing.T) {
		t.Parallel()
		attrs := []slog.Attr{slog.String(ErrorKey, "not an error value")}
		remaining, err := SplitError(attrs)
		assert.NoError(t, err)
		assert.Equal(t, attrs, remaining)
	})

	t.Run("original slice is not mutated", func(t *testing.T) {
		t.Parallel()
		attrs := []slog.Attr{
			slog.Any(ErrorKey, io.EOF),
			slog.String("user", "bob"),
		}
		remaining, err := SplitError(attrs)
		assert.Equal(t, io.EOF, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, "user", remaining[0].Key)
		assert.Equal(t, ErrorKey, attrs[0].Key)
	})
}

func TestExceptionFromError(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Exception{}, ExceptionFromError(nil))
	})

	t.Run("error with recorded stack", func(t *testing.T) {
		t.Parallel()
		exc := ExceptionFromError(errors.New("boom"))
		assert.Equal(t, "*errors.fundamental", exc.Type)
		assert.Equal(t, "boom", exc.Message)
		assert.Contains(t, exc.StackTrace, "format.TestExceptionFromError")
	})

	t.Run("wrapped error keeps outer message", func(t *testing.T) {
		t.Parallel()
		exc := ExceptionFromError(errors.Wrap(io.EOF, "reading frame"))
		assert.Equal(t, "reading frame: EOF", exc.Message)
		assert.NotEmpty(t, exc.StackTrace)
	})

	t.Run("plain error has no stack", func(t *testing.T) {
		t.Parallel()
		exc := ExceptionFromError(io.ErrUnexpectedEOF)
		assert.Equal(t, "unexpected EOF", exc.Message)
		assert.Empty(t, exc.StackTrace)
	})
}

func TestCallerSource(t *testing.T) {
	t.Parallel()

	t.Run("zero program counter", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Source{}, CallerSource(0))
	})

	t.Run("resolves the call site", func(t *testing.T) {
		t.Parallel()
		var pcs [1]uintptr
		runtime.Callers(1, pcs[:])
		source := CallerSource(pcs[0])
		assert.Contains(t, source.File, "format_test.go")
		assert.Contains(t, source.Function, "TestCallerSource")
		assert.Greater(t, source.Line, 0)
	})
}

func TestHostname(t *testing.T) {
	t.Parallel()
	assert.NotEmpty(t, Hostname())
}
