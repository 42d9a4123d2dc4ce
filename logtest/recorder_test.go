// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/unilog"
	"github.com/mia-platform/unilog/sink"
)

func TestRecorderCapturesEntries(t *testing.T) {
	t.Parallel()

	logger, recorder := NewLogger("app.db", unilog.DEBUG)

	logger.Info("connected", "host", "db.internal")
	logger.Warning("slow query")

	require.Equal(t, 2, recorder.Len())
	assert.Equal(t, []string{"connected", "slow query"}, recorder.Messages())

	entries := recorder.Entries()
	assert.Equal(t, unilog.INFO, entries[0].Level)
	assert.Equal(t, "app.db", entries[0].Logger)
	require.Len(t, entries[0].Attrs, 1)
	assert.Equal(t, "host", entries[0].Attrs[0].Key)

	last, found := recorder.Last()
	require.True(t, found)
	assert.Equal(t, "slow query", last.Message)
}

func TestRecorderHonorsThreshold(t *testing.T) {
	t.Parallel()

	logger, recorder := NewLogger("app", unilog.ERROR)

	logger.Debug("filtered")
	logger.Error("kept")

	assert.Equal(t, []string{"kept"}, recorder.Messages())
}

func TestRecorderReset(t *testing.T) {
	t.Parallel()

	logger, recorder := NewLogger("app", unilog.DEBUG)
	logger.Info("before reset")

	recorder.Reset()

	assert.Zero(t, recorder.Len())
	_, found := recorder.Last()
	assert.False(t, found)
}

func TestRecorderIsACaptureSink(t *testing.T) {
	t.Parallel()

	recorder := NewRecorder()
	assert.Equal(t, sink.KindCapture, recorder.Kind())
	assert.True(t, recorder.Enabled(unilog.DEBUG))
	assert.NoError(t, recorder.Close())
}
