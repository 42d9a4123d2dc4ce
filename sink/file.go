// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mia-platform/unilog/format"
)

// FileConfig configures a rotated file sink. Zero rotation values fall back
// to the defaults of 10 MB per file and 5 kept backups; a negative MaxBackups
// keeps every backup.
type FileConfig struct {
	// Path is the log file location. Parent directories are created.
	Path string
	// MaxSizeMB is the size that triggers a rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
	// MaxAgeDays deletes rotated files older than this, 0 keeps them.
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
}

var _ Sink = &fileSink{}

type fileSink struct {
	rotator   *lumberjack.Logger
	formatter format.Formatter
}

// NewFile builds the file sink and probes the destination: the parent
// directory is created and the file opened once in append mode, so an
// unwritable location is reported at attach time instead of on the first
// record.
func NewFile(config FileConfig) (Sink, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("%w: file path is empty", ErrConfigNotValid)
	}
	if config.MaxSizeMB <= 0 {
		config.MaxSizeMB = 10
	}
	switch {
	case config.MaxBackups == 0:
		config.MaxBackups = 5
	case config.MaxBackups < 0:
		config.MaxBackups = 0
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating log directory: %s", ErrUnavailable, err.Error())
	}
	probe, err := os.OpenFile(config.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening log file: %s", ErrUnavailable, err.Error())
	}
	if err := probe.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing log file probe: %s", ErrUnavailable, err.Error())
	}

	return &fileSink{
		rotator: &lumberjack.Logger{
			Filename:   config.Path,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAgeDays,
			Compress:   config.Compress,
		},
		formatter: format.Text{},
	}, nil
}

func (s *fileSink) Kind() Kind {
	return KindFile
}

func (s *fileSink) Enabled(format.Level) bool {
	return true
}

// Emit appends one formatted line. The rotator serializes concurrent writes
// and rotates on its own thresholds.
func (s *fileSink) Emit(entry format.Entry) error {
	_, err := s.rotator.Write(append(s.formatter.Format(entry), '\n'))
	return err
}

func (s *fileSink) Close() error {
	return s.rotator.Close()
}
