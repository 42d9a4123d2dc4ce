// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/unilog/format"
)

func TestFileSink(t *testing.T) {
	t.Parallel()

	entry := format.Entry{
		Time:    time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Level:   format.INFO,
		Logger:  "app",
		Message: "persisted",
	}

	t.Run("creates directories and appends lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "logs", "application.log")
		file, err := NewFile(FileConfig{Path: path})
		require.NoError(t, err)
		t.Cleanup(func() { _ = file.Close() })

		require.NoError(t, file.Emit(entry))
		require.NoError(t, file.Emit(entry))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t,
			"2025-03-14 09:26:53 [INFO] app: persisted\n2025-03-14 09:26:53 [INFO] app: persisted\n",
			string(content))
	})

	t.Run("rotation defaults", func(t *testing.T) {
		t.Parallel()

		file, err := NewFile(FileConfig{Path: filepath.Join(t.TempDir(), "app.log")})
		require.NoError(t, err)
		t.Cleanup(func() { _ = file.Close() })

		rotator := file.(*fileSink).rotator
		assert.Equal(t, 10, rotator.MaxSize)
		assert.Equal(t, 5, rotator.MaxBackups)
		assert.Equal(t, 0, rotator.MaxAge)
		assert.False(t, rotator.Compress)
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewFile(FileConfig{})
		assert.ErrorIs(t, err, ErrConfigNotValid)
	})

	t.Run("unwritable destination is reported at attach", func(t *testing.T) {
		t.Parallel()

		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

		_, err := NewFile(FileConfig{Path: filepath.Join(blocker, "app.log")})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("kind", func(t *testing.T) {
		t.Parallel()

		file, err := NewFile(FileConfig{Path: filepath.Join(t.TempDir(), "app.log")})
		require.NoError(t, err)
		t.Cleanup(func() { _ = file.Close() })

		assert.Equal(t, KindFile, file.Kind())
		assert.True(t, file.Enabled(format.DEBUG))
	})
}
