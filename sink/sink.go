// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"errors"

	"github.com/mia-platform/unilog/format"
)

var (
	// ErrUnavailable reports that a sink destination cannot currently accept
	// records; the record that triggered it has been dropped.
	ErrUnavailable = errors.New("sink unavailable")
	// ErrConfigNotValid reports an invalid sink configuration at attach time.
	ErrConfigNotValid = errors.New("sink configuration not valid")
)

// Kind identifies the destination class of a sink. A logger holds at most
// one sink of each kind, which is what makes repeated configuration calls
// idempotent.
type Kind int

const (
	KindConsole Kind = iota
	KindFile
	KindLogstash
	KindEmail
	KindCapture
)

// String returns the lower-case name of the kind, used in warnings and stats.
func (k Kind) String() string {
	switch k {
	case KindConsole:
		return "console"
	case KindFile:
		return "file"
	case KindLogstash:
		return "logstash"
	case KindEmail:
		return "email"
	case KindCapture:
		return "capture"
	default:
		return "unknown"
	}
}

// Sink consumes formatted log entries. Implementations are safe for
// concurrent use. Emit reports delivery failures so the caller can degrade;
// the failed record is never retried. Close releases the destination, it is
// needed only by owners that outlive their sinks (normally sinks live until
// process exit).
type Sink interface {
	// Kind tags the destination class for the one-per-kind rule.
	Kind() Kind
	// Enabled reports whether the sink accepts records at the given level,
	// on top of the owning logger's threshold.
	Enabled(level format.Level) bool
	// Emit delivers a single entry.
	Emit(entry format.Entry) error
	// Close releases the underlying destination.
	Close() error
}
