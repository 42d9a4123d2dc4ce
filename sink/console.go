// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/mia-platform/unilog/format"
)

// ColorMode selects how the console sink decides whether to color the level
// badge.
type ColorMode int

const (
	// ColorAuto enables colors when the writer is a terminal and NO_COLOR
	// is not set.
	ColorAuto ColorMode = iota
	ColorOn
	ColorOff
)

// ConsoleConfig configures a console sink. The zero value writes colored
// text to stderr when stderr is a terminal.
type ConsoleConfig struct {
	// Writer receives the formatted lines, stderr when nil.
	Writer io.Writer
	// Color controls the level badge coloring.
	Color ColorMode
}

var _ Sink = &consoleSink{}

type consoleSink struct {
	writer    io.Writer
	formatter format.Formatter

	lock sync.Mutex
}

// NewConsole builds the console sink. It cannot fail: an invalid writer is
// impossible and color detection degrades to plain text.
func NewConsole(config ConsoleConfig) Sink {
	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	return &consoleSink{
		writer:    writer,
		formatter: format.Text{Color: colorEnabled(config.Color, writer)},
	}
}

func colorEnabled(mode ColorMode, writer io.Writer) bool {
	switch mode {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}

	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func (s *consoleSink) Kind() Kind {
	return KindConsole
}

func (s *consoleSink) Enabled(format.Level) bool {
	return true
}

func (s *consoleSink) Emit(entry format.Entry) error {
	line := append(s.formatter.Format(entry), '\n')

	s.lock.Lock()
	defer s.lock.Unlock()
	_, err := s.writer.Write(line)
	return err
}

func (s *consoleSink) Close() error {
	return nil
}
