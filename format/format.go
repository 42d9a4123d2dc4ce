// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrorKey is the attribute key that formatters promote to the exception
// section of the rendered entry instead of emitting as a plain attribute.
const ErrorKey = "error"

// Entry is a single log record, resolved from the logger front end and ready
// to be rendered. Sinks build one Entry per record and hand it to their
// formatter.
type Entry struct {
	// Time is the instant the record was produced.
	Time time.Time
	// Level is the severity of the record.
	Level Level
	// Logger is the name of the logger that produced the record.
	Logger string
	// Message is the already-interpolated log message.
	Message string
	// Attrs carries the structured attributes attached to the record, in
	// the order they were supplied. The ErrorKey attribute is stripped out
	// into Err before formatting.
	Attrs []slog.Attr
	// Err is the error attached to the record, if any.
	Err error
	// PC is the program counter of the logging call site, zero when the
	// producer did not capture one.
	PC uintptr
}

// FromRecord converts a slog.Record into an Entry for the named logger,
// extracting the ErrorKey attribute into Entry.Err.
func FromRecord(name string, record slog.Record) Entry {
	entry := Entry{
		Time:    record.Time,
		Level:   LevelFromSlog(record.Level),
		Logger:  name,
		Message: record.Message,
		PC:      record.PC,
	}
	if record.NumAttrs() > 0 {
		entry.Attrs = make([]slog.Attr, 0, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			entry.Attrs = append(entry.Attrs, attr)
			return true
		})
	}
	entry.Attrs, entry.Err = SplitError(entry.Attrs)
	return entry
}

// SplitError removes the first ErrorKey attribute holding an error value from
// attrs and returns it separately. The remaining attributes keep their order.
func SplitError(attrs []slog.Attr) ([]slog.Attr, error) {
	for i, attr := range attrs {
		if attr.Key != ErrorKey {
			continue
		}
		value := attr.Value.Resolve()
		if value.Kind() != slog.KindAny {
			continue
		}
		if err, ok := value.Any().(error); ok {
			return append(attrs[:i:i], attrs[i+1:]...), err
		}
	}
	return attrs, nil
}

// Source describes the call site of a log record.
type Source struct {
	Function string
	File     string
	Line     int
}

// CallerSource resolves the program counter of an Entry to its source
// location. The zero Source is returned when the counter is missing or
// cannot be resolved.
func CallerSource(pc uintptr) Source {
	if pc == 0 {
		return Source{}
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return Source{
		Function: frame.Function,
		File:     frame.File,
		Line:     frame.Line,
	}
}

// Exception describes an error attached to a log entry, shaped the way log
// aggregation pipelines expect it: a type name, a message and an optional
// multi-line stack trace.
type Exception struct {
	Type       string
	Message    string
	StackTrace string
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// ExceptionFromError derives the exception section for err. The stack trace
// is taken from the outermost error in the chain that records one, which with
// github.com/pkg/errors is the most recent errors.WithStack or errors.Wrap
// call.
func ExceptionFromError(err error) Exception {
	if err == nil {
		return Exception{}
	}
	exc := Exception{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}
	for cause := err; cause != nil; cause = errors.Unwrap(cause) {
		if tracer, ok := cause.(stackTracer); ok {
			exc.StackTrace = fmt.Sprintf("%+v", tracer.StackTrace())
			break
		}
	}
	return exc
}

var (
	hostnameOnce   sync.Once
	cachedHostname string
)

// Hostname returns the machine host name stamped on shipped entries. The
// lookup runs once per process; failures degrade to "localhost".
func Hostname() string {
	hostnameOnce.Do(func() {
		if name, err := os.Hostname(); err == nil {
			cachedHostname = name
		}
	})
	if cachedHostname == "" {
		return "localhost"
	}
	return cachedHostname
}

// Formatter renders an Entry into bytes. Implementations are stateless and
// safe for concurrent use; the returned slice carries no trailing newline,
// sinks append their own record separator.
type Formatter interface {
	Format(entry Entry) []byte
}
