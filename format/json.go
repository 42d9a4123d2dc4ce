// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// TimestampLayout pins the @timestamp rendering to millisecond precision with
// an explicit zone, the shape log aggregation pipelines index without extra
// date-parsing configuration.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// reservedKeys are the JSON document fields owned by the formatter. Entry
// attributes with one of these keys are dropped so the document structure
// stays trustworthy for downstream index mappings.
var reservedKeys = map[string]struct{}{
	"@timestamp": {},
	"level":      {},
	"logger":     {},
	"message":    {},
	"host":       {},
	"file":       {},
	"line":       {},
	"function":   {},
	"exception":  {},
}

// JSON renders entries as single-line JSON documents for structured sinks.
// The zero value is ready to use.
type JSON struct{}

var _ Formatter = JSON{}

// Format renders the entry as one JSON object without a trailing newline.
// Field order is fixed: @timestamp, level, logger, message, the entry
// attributes, then the caller and host metadata, then the exception section
// when an error is attached.
func (JSON) Format(entry Entry) []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	appendStringField(buf, "@timestamp", entry.Time.Format(TimestampLayout), true)
	appendStringField(buf, "level", entry.Level.String(), false)
	appendStringField(buf, "logger", entry.Logger, false)
	appendStringField(buf, "message", entry.Message, false)

	for _, attr := range entry.Attrs {
		appendAttr(buf, attr)
	}

	appendStringField(buf, "host", Hostname(), false)
	if source := CallerSource(entry.PC); source.File != "" {
		appendStringField(buf, "file", source.File, false)
		appendKey(buf, "line", false)
		fmt.Fprintf(buf, "%d", source.Line)
		appendStringField(buf, "function", source.Function, false)
	}

	if entry.Err != nil {
		exc := ExceptionFromError(entry.Err)
		appendKey(buf, "exception", false)
		buf.WriteByte('{')
		appendStringField(buf, "type", exc.Type, true)
		appendStringField(buf, "message", exc.Message, false)
		if exc.StackTrace != "" {
			appendStringField(buf, "stack_trace", exc.StackTrace, false)
		}
		buf.WriteByte('}')
	}

	buf.WriteByte('}')
	return buf.Bytes()
}

func appendKey(buf *bytes.Buffer, key string, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	appendJSONString(buf, key)
	buf.WriteByte(':')
}

func appendStringField(buf *bytes.Buffer, key, value string, first bool) {
	appendKey(buf, key, first)
	appendJSONString(buf, value)
}

func appendAttr(buf *bytes.Buffer, attr slog.Attr) {
	if attr.Key == "" {
		return
	}
	if _, reserved := reservedKeys[attr.Key]; reserved {
		return
	}
	appendKey(buf, attr.Key, false)
	appendValue(buf, attr.Value.Resolve())
}

func appendValue(buf *bytes.Buffer, value slog.Value) {
	switch value.Kind() {
	case slog.KindString:
		appendJSONString(buf, value.String())
	case slog.KindInt64:
		fmt.Fprintf(buf, "%d", value.Int64())
	case slog.KindUint64:
		fmt.Fprintf(buf, "%d", value.Uint64())
	case slog.KindBool:
		fmt.Fprintf(buf, "%t", value.Bool())
	case slog.KindFloat64:
		appendJSONMarshaled(buf, value.Float64())
	case slog.KindDuration:
		appendJSONString(buf, value.Duration().String())
	case slog.KindTime:
		appendJSONString(buf, value.Time().Format(time.RFC3339Nano))
	case slog.KindGroup:
		buf.WriteByte('{')
		for i, attr := range value.Group() {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendJSONString(buf, attr.Key)
			buf.WriteByte(':')
			appendValue(buf, attr.Value.Resolve())
		}
		buf.WriteByte('}')
	default:
		if err, ok := value.Any().(error); ok {
			appendJSONString(buf, err.Error())
			return
		}
		appendJSONMarshaled(buf, value.Any())
	}
}

func appendJSONMarshaled(buf *bytes.Buffer, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		appendJSONString(buf, fmt.Sprintf("%+v", value))
		return
	}
	buf.Write(encoded)
}

func appendJSONString(buf *bytes.Buffer, value string) {
	encoded, err := json.Marshal(value)
	if err != nil {
		buf.WriteString(`""`)
		return
	}
	buf.Write(encoded)
}
