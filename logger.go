// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package unilog

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/mia-platform/unilog/sink"
)

// Logger is a named logger wired to a set of sinks. Loggers are created by a
// Registry (or NewLogger for explicit wiring), are safe for concurrent use
// and live until process exit; there is no teardown.
//
// The level threshold is shared by every logger derived with With or
// WithGroup, so SetLevel takes effect everywhere at once and the last caller
// wins.
type Logger struct {
	name    string
	level   *slog.LevelVar
	sinks   *sinkSet
	handler *fanoutHandler
	slogger *slog.Logger
}

// NewLogger wires a logger directly to the given sinks, bypassing any
// registry. The one-sink-per-kind rule still applies: later duplicates are
// ignored.
func NewLogger(name string, level Level, sinks ...sink.Sink) *Logger {
	levelVar := &slog.LevelVar{}
	levelVar.Set(level.Slog())

	set := newSinkSet()
	for _, target := range sinks {
		if target != nil {
			set.attach(target)
		}
	}

	handler := &fanoutHandler{name: name, level: levelVar, sinks: set}
	return &Logger{
		name:    name,
		level:   levelVar,
		sinks:   set,
		handler: handler,
		slogger: slog.New(handler),
	}
}

// Name returns the name the logger was registered under.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the current threshold.
func (l *Logger) Level() Level {
	return Level(l.level.Level())
}

// SetLevel updates the threshold for the logger and everything derived from
// it. Last caller wins.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.Slog())
}

// Enabled reports whether records at the given level currently pass the
// threshold.
func (l *Logger) Enabled(level Level) bool {
	return level.Slog() >= l.level.Level()
}

// Attach adds a sink to the logger. It reports false, without attaching,
// when a sink of the same kind is already present.
func (l *Logger) Attach(target sink.Sink) bool {
	if target == nil {
		return false
	}
	return l.sinks.attach(target)
}

// HasSink reports whether a sink of the given kind is attached.
func (l *Logger) HasSink(kind sink.Kind) bool {
	return l.sinks.has(kind)
}

// With returns a logger that adds the given key/value pairs to every record.
// The new logger shares the name, threshold and sinks of its parent.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}

	handler := l.handler.WithAttrs(argsToAttrs(args)).(*fanoutHandler)
	return l.derive(handler)
}

// WithGroup returns a logger that qualifies the keys of subsequent
// attributes with the group name.
func (l *Logger) WithGroup(name string) *Logger {
	if name == "" {
		return l
	}

	handler := l.handler.WithGroup(name).(*fanoutHandler)
	return l.derive(handler)
}

func (l *Logger) derive(handler *fanoutHandler) *Logger {
	return &Logger{
		name:    l.name,
		level:   l.level,
		sinks:   l.sinks,
		handler: handler,
		slogger: slog.New(handler),
	}
}

// Slog exposes the logger as a standard *slog.Logger sharing the same sinks
// and threshold, for libraries that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.slogger
}

// Debug emits a message and key/value pairs at the DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(DEBUG, msg, args...)
}

// Info emits a message and key/value pairs at the INFO level.
func (l *Logger) Info(msg string, args ...any) {
	l.log(INFO, msg, args...)
}

// Warning emits a message and key/value pairs at the WARNING level.
func (l *Logger) Warning(msg string, args ...any) {
	l.log(WARNING, msg, args...)
}

// Error emits a message and key/value pairs at the ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	l.log(ERROR, msg, args...)
}

// Critical emits a message and key/value pairs at the CRITICAL level.
func (l *Logger) Critical(msg string, args ...any) {
	l.log(CRITICAL, msg, args...)
}

// Log emits a message at an arbitrary level.
func (l *Logger) Log(level Level, msg string, args ...any) {
	l.log(level, msg, args...)
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	// skip runtime.Callers, log and the exported wrapper
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	record := slog.NewRecord(time.Now(), level.Slog(), msg, pcs[0])
	record.Add(args...)
	_ = l.handler.Handle(context.Background(), record)
}

// argsToAttrs converts loosely typed key/value pairs to attributes with the
// same rules slog applies to its variadic arguments.
func argsToAttrs(args []any) []slog.Attr {
	var record slog.Record
	record.Add(args...)

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})
	return attrs
}
