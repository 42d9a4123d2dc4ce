// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package compat

import (
	"bytes"
	"io"
	"log"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mia-platform/unilog"
)

// subsystemKey is the attribute carrying the hclog sub-logger name, since a
// configured logger keeps the name it was registered under.
const subsystemKey = "subsystem"

var _ hclog.Logger = &hclogAdapter{}

type hclogAdapter struct {
	logger  *unilog.Logger
	name    string
	implied []any
}

// HCLogger exposes a configured logger through the hclog interface. Trace
// maps to DEBUG, hclog sub-logger names become the "subsystem" attribute and
// SetLevel flows to the underlying logger, so the usual last-caller-wins
// threshold rule applies to hclog consumers too.
func HCLogger(logger *unilog.Logger) hclog.Logger {
	return &hclogAdapter{
		logger: logger,
		name:   logger.Name(),
	}
}

func levelFromHCLog(level hclog.Level) unilog.Level {
	switch level {
	case hclog.Trace, hclog.Debug:
		return unilog.DEBUG
	case hclog.Info, hclog.NoLevel:
		return unilog.INFO
	case hclog.Warn:
		return unilog.WARNING
	case hclog.Error:
		return unilog.ERROR
	case hclog.Off:
		return unilog.CRITICAL + 1
	default:
		return unilog.INFO
	}
}

func (a *hclogAdapter) Log(level hclog.Level, msg string, args ...interface{}) {
	a.logger.Log(levelFromHCLog(level), msg, args...)
}

func (a *hclogAdapter) Trace(msg string, args ...interface{}) {
	a.logger.Debug(msg, args...)
}

func (a *hclogAdapter) Debug(msg string, args ...interface{}) {
	a.logger.Debug(msg, args...)
}

func (a *hclogAdapter) Info(msg string, args ...interface{}) {
	a.logger.Info(msg, args...)
}

func (a *hclogAdapter) Warn(msg string, args ...interface{}) {
	a.logger.Warning(msg, args...)
}

func (a *hclogAdapter) Error(msg string, args ...interface{}) {
	a.logger.Error(msg, args...)
}

func (a *hclogAdapter) IsTrace() bool { return a.logger.Enabled(unilog.DEBUG) }
func (a *hclogAdapter) IsDebug() bool { return a.logger.Enabled(unilog.DEBUG) }
func (a *hclogAdapter) IsInfo() bool  { return a.logger.Enabled(unilog.INFO) }
func (a *hclogAdapter) IsWarn() bool  { return a.logger.Enabled(unilog.WARNING) }
func (a *hclogAdapter) IsError() bool { return a.logger.Enabled(unilog.ERROR) }

func (a *hclogAdapter) ImpliedArgs() []interface{} {
	return a.implied
}

func (a *hclogAdapter) With(args ...interface{}) hclog.Logger {
	implied := append(append([]any(nil), a.implied...), args...)
	return &hclogAdapter{
		logger:  a.logger.With(args...),
		name:    a.name,
		implied: implied,
	}
}

func (a *hclogAdapter) Name() string {
	return a.name
}

func (a *hclogAdapter) Named(name string) hclog.Logger {
	if a.name != "" {
		name = a.name + "." + name
	}
	return a.ResetNamed(name)
}

func (a *hclogAdapter) ResetNamed(name string) hclog.Logger {
	return &hclogAdapter{
		logger:  a.logger.With(subsystemKey, name),
		name:    name,
		implied: a.implied,
	}
}

func (a *hclogAdapter) SetLevel(level hclog.Level) {
	a.logger.SetLevel(levelFromHCLog(level))
}

func (a *hclogAdapter) GetLevel() hclog.Level {
	switch level := a.logger.Level(); {
	case level <= unilog.DEBUG:
		return hclog.Debug
	case level <= unilog.INFO:
		return hclog.Info
	case level <= unilog.WARNING:
		return hclog.Warn
	default:
		return hclog.Error
	}
}

func (a *hclogAdapter) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(a.StandardWriter(opts), "", 0)
}

func (a *hclogAdapter) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	if opts == nil {
		opts = &hclog.StandardLoggerOptions{}
	}
	return &stdlogWriter{adapter: a, opts: opts}
}

// stdlogWriter feeds lines written by a standard *log.Logger into the
// adapter, optionally inferring the level from a [LEVEL] prefix the way
// hclog does.
type stdlogWriter struct {
	adapter *hclogAdapter
	opts    *hclog.StandardLoggerOptions
}

func (w *stdlogWriter) Write(data []byte) (int, error) {
	message := string(bytes.TrimRight(data, "\n"))

	level := hclog.Info
	if w.opts.ForceLevel != hclog.NoLevel {
		level = w.opts.ForceLevel
	} else if w.opts.InferLevels {
		level, message = inferLevel(message)
	}

	w.adapter.Log(level, message)
	return len(data), nil
}

func inferLevel(message string) (hclog.Level, string) {
	prefixes := []struct {
		prefix string
		level  hclog.Level
	}{
		{"[TRACE]", hclog.Trace},
		{"[DEBUG]", hclog.Debug},
		{"[INFO]", hclog.Info},
		{"[WARN]", hclog.Warn},
		{"[WARNING]", hclog.Warn},
		{"[ERROR]", hclog.Error},
		{"[ERR]", hclog.Error},
	}

	for _, candidate := range prefixes {
		if strings.HasPrefix(message, candidate.prefix) {
			return candidate.level, strings.TrimSpace(strings.TrimPrefix(message, candidate.prefix))
		}
	}
	return hclog.Info, message
}
