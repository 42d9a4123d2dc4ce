// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logtest

import (
	"sync"

	"github.com/mia-platform/unilog"
	"github.com/mia-platform/unilog/format"
	"github.com/mia-platform/unilog/sink"
)

var _ sink.Sink = &Recorder{}

// Recorder is a sink that keeps every emitted entry in memory. It is safe
// for concurrent use and never fails.
type Recorder struct {
	lock    sync.Mutex
	entries []format.Entry
}

// NewRecorder returns an empty Recorder ready to be attached to a logger.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewLogger returns a logger whose only sink is a fresh Recorder, so tests
// can assert on exactly what was logged.
func NewLogger(name string, level unilog.Level) (*unilog.Logger, *Recorder) {
	recorder := NewRecorder()
	return unilog.NewLogger(name, level, recorder), recorder
}

func (r *Recorder) Kind() sink.Kind {
	return sink.KindCapture
}

func (r *Recorder) Enabled(format.Level) bool {
	return true
}

func (r *Recorder) Emit(entry format.Entry) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.entries = append(r.entries, entry)
	return nil
}

func (r *Recorder) Close() error {
	return nil
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []format.Entry {
	r.lock.Lock()
	defer r.lock.Unlock()

	return append([]format.Entry(nil), r.entries...)
}

// Messages returns the recorded messages in emission order.
func (r *Recorder) Messages() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	messages := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		messages = append(messages, entry.Message)
	}
	return messages
}

// Last returns the most recent entry, if any.
func (r *Recorder) Last() (format.Entry, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(r.entries) == 0 {
		return format.Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.entries)
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.entries = nil
}
