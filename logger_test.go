// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package unilog

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/unilog/format"
	"github.com/mia-platform/unilog/sink"
)

// bufferLogger wires a logger to a plain console sink writing into the
// returned buffer.
func bufferLogger(name string, level Level) (*Logger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	logger := NewLogger(name, level, sink.NewConsole(sink.ConsoleConfig{Writer: buffer, Color: sink.ColorOff}))
	return logger, buffer
}

func bufferLines(buffer *bytes.Buffer) []string {
	content := strings.TrimSuffix(buffer.String(), "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// failingSink always rejects records, to exercise degradation warnings.
type failingSink struct {
	kind  sink.Kind
	err   error
	calls int
}

var _ sink.Sink = &failingSink{}

func (s *failingSink) Kind() sink.Kind           { return s.kind }
func (s *failingSink) Enabled(format.Level) bool { return true }
func (s *failingSink) Close() error              { return nil }
func (s *failingSink) Emit(format.Entry) error {
	s.calls++
	return s.err
}

func TestLoggerThreshold(t *testing.T) {
	t.Parallel()

	logger, buffer := bufferLogger("app", WARNING)

	logger.Debug("not this one")
	logger.Info("nor this one")
	logger.Warning("first")
	logger.Error("second")
	logger.Critical("third")

	lines := bufferLines(buffer)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[WARNING] app: first")
	assert.Contains(t, lines[1], "[ERROR] app: second")
	assert.Contains(t, lines[2], "[CRITICAL] app: third")
}

func TestSetLevelLastCallerWins(t *testing.T) {
	t.Parallel()

	logger, buffer := bufferLogger("app", DEBUG)
	derived := logger.With("user", "bob")

	logger.SetLevel(ERROR)
	derived.Info("suppressed everywhere")
	assert.Empty(t, bufferLines(buffer))

	derived.SetLevel(DEBUG)
	logger.Debug("visible again")
	assert.Len(t, bufferLines(buffer), 1)
	assert.Equal(t, DEBUG, logger.Level())
}

func TestLoggerWith(t *testing.T) {
	t.Parallel()

	logger, buffer := bufferLogger("app", DEBUG)

	logger.With("user", "bob").Info("hello", "attempt", 2)

	lines := bufferLines(buffer)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[INFO] app: hello user=bob attempt=2")
}

func TestLoggerWithGroup(t *testing.T) {
	t.Parallel()

	logger, buffer := bufferLogger("app", DEBUG)

	logger.WithGroup("request").With("method", "GET").Info("done", "status", 200)

	lines := bufferLines(buffer)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "request.method=GET")
	assert.Contains(t, lines[0], "request.status=200")
}

func TestLoggerErrorAttribute(t *testing.T) {
	t.Parallel()

	logger, buffer := bufferLogger("app", DEBUG)

	logger.Error("request failed", "error", errors.New("boom"))

	output := buffer.String()
	assert.Contains(t, output, "[ERROR] app: request failed")
	assert.Contains(t, output, "\texception: *errors.fundamental: boom")
	assert.NotContains(t, output, "error=")
}

func TestLoggerSlogSurface(t *testing.T) {
	t.Parallel()

	logger, buffer := bufferLogger("app", INFO)

	slogger := logger.Slog()
	slogger.Debug("filtered out")
	slogger.Info("through slog", "user", "bob")

	lines := bufferLines(buffer)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[INFO] app: through slog user=bob")
}

func TestAttachOnePerKind(t *testing.T) {
	t.Parallel()

	logger, _ := bufferLogger("app", DEBUG)

	assert.True(t, logger.HasSink(sink.KindConsole))
	assert.False(t, logger.Attach(sink.NewConsole(sink.ConsoleConfig{Writer: &bytes.Buffer{}})))
	assert.False(t, logger.HasSink(sink.KindFile))
	assert.False(t, logger.Attach(nil))
}

func TestSinkDegradationWarnsOnce(t *testing.T) {
	t.Parallel()

	logger, buffer := bufferLogger("app", DEBUG)
	failing := &failingSink{kind: sink.KindLogstash, err: sink.ErrUnavailable}
	require.True(t, logger.Attach(failing))

	logger.Info("one")
	logger.Info("two")

	assert.Equal(t, 2, failing.calls)

	warnings := 0
	for _, line := range bufferLines(buffer) {
		if strings.Contains(line, "log sink degraded") {
			warnings++
			assert.Contains(t, line, "sink=logstash")
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestPerSinkThresholdFanout(t *testing.T) {
	t.Parallel()

	logger, buffer := bufferLogger("app", DEBUG)
	selective := &captureAboveError{}
	require.True(t, logger.Attach(selective))

	logger.Info("console only")
	logger.Error("everywhere")

	assert.Len(t, bufferLines(buffer), 2)
	require.Len(t, selective.entries, 1)
	assert.Equal(t, "everywhere", selective.entries[0].Message)
}

// captureAboveError records ERROR-and-above entries, like the email sink.
type captureAboveError struct {
	lock    sync.Mutex
	entries []format.Entry
}

var _ sink.Sink = &captureAboveError{}

func (s *captureAboveError) Kind() sink.Kind { return sink.KindCapture }
func (s *captureAboveError) Close() error    { return nil }

func (s *captureAboveError) Enabled(level format.Level) bool {
	return level >= format.ERROR
}

func (s *captureAboveError) Emit(entry format.Entry) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()
		logger, _ := bufferLogger("app", DEBUG)
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("missing logger discards", func(t *testing.T) {
		t.Parallel()
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(CRITICAL))
		logger.Critical("goes nowhere")
	})

	t.Run("nil context", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, FromContext(nil)) //nolint:staticcheck
	})
}
