// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package unilog

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mia-platform/unilog/format"
	"github.com/mia-platform/unilog/sink"
)

// sinkSet is the mutable sink collection shared by a logger and everything
// derived from it with With or WithGroup. It enforces the one-sink-per-kind
// rule and owns the once-per-kind degradation warnings.
type sinkSet struct {
	lock   sync.RWMutex
	sinks  []sink.Sink
	warned map[sink.Kind]bool
}

func newSinkSet() *sinkSet {
	return &sinkSet{warned: map[sink.Kind]bool{}}
}

// attach adds the sink unless one of the same kind is already present.
func (s *sinkSet) attach(sk sink.Sink) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, existing := range s.sinks {
		if existing.Kind() == sk.Kind() {
			return false
		}
	}
	s.sinks = append(s.sinks, sk)
	return true
}

func (s *sinkSet) has(kind sink.Kind) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, existing := range s.sinks {
		if existing.Kind() == kind {
			return true
		}
	}
	return false
}

func (s *sinkSet) snapshot() []sink.Sink {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return append([]sink.Sink(nil), s.sinks...)
}

// warnOnce reports a degraded sink on the console, at most once per kind for
// the lifetime of the logger. Console failures have nowhere left to go and
// are swallowed.
func (s *sinkSet) warnOnce(kind sink.Kind, logger, message string, cause error) {
	s.lock.Lock()
	if s.warned[kind] {
		s.lock.Unlock()
		return
	}
	s.warned[kind] = true

	var console sink.Sink
	for _, existing := range s.sinks {
		if existing.Kind() == sink.KindConsole {
			console = existing
			break
		}
	}
	s.lock.Unlock()

	if console == nil {
		return
	}
	_ = console.Emit(format.Entry{
		Time:    time.Now(),
		Level:   WARNING,
		Logger:  logger,
		Message: message,
		Attrs: []slog.Attr{
			slog.String("sink", kind.String()),
			slog.String("reason", cause.Error()),
		},
	})
}

var _ slog.Handler = &fanoutHandler{}

// fanoutHandler adapts a sink set to the log/slog handler contract. It
// resolves each record into a format.Entry once and dispatches it to every
// sink that accepts the record's level. Bound attributes and open groups
// accumulate here, sinks always receive flattened entries.
type fanoutHandler struct {
	name  string
	level *slog.LevelVar
	sinks *sinkSet

	attrs  []slog.Attr
	groups []string
}

func (h *fanoutHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *fanoutHandler) Handle(_ context.Context, record slog.Record) error {
	entry := format.Entry{
		Time:    record.Time,
		Level:   format.LevelFromSlog(record.Level),
		Logger:  h.name,
		Message: record.Message,
		PC:      record.PC,
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	combined := make([]slog.Attr, 0, len(h.attrs)+record.NumAttrs())
	combined = append(combined, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		combined = append(combined, h.qualify(attr))
		return true
	})
	entry.Attrs, entry.Err = format.SplitError(combined)

	for _, target := range h.sinks.snapshot() {
		if !target.Enabled(entry.Level) {
			continue
		}
		if err := target.Emit(entry); err != nil {
			h.sinks.warnOnce(target.Kind(), h.name, "log sink degraded, record dropped", err)
		}
	}
	return nil
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	clone := h.clone()
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(attr))
	}
	return clone
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *fanoutHandler) clone() *fanoutHandler {
	return &fanoutHandler{
		name:   h.name,
		level:  h.level,
		sinks:  h.sinks,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

// qualify prefixes the attr key with the open group names, dot separated.
// The error attribute stays unqualified so exception extraction keeps
// working inside groups.
func (h *fanoutHandler) qualify(attr slog.Attr) slog.Attr {
	if len(h.groups) == 0 || attr.Key == "" || attr.Key == format.ErrorKey {
		return attr
	}
	attr.Key = strings.Join(h.groups, ".") + "." + attr.Key
	return attr
}
