// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const textTimestampLayout = "2006-01-02 15:04:05"

const ansiReset = "\x1b[0m"

// levelColor maps a level to the ANSI escape that paints its console badge.
func levelColor(level Level) string {
	switch {
	case level >= CRITICAL:
		return "\x1b[1;37;41m"
	case level >= ERROR:
		return "\x1b[31m"
	case level >= WARNING:
		return "\x1b[33m"
	case level >= INFO:
		return "\x1b[32m"
	default:
		return "\x1b[34m"
	}
}

// Text renders entries as single human-readable lines in the form
//
//	2006-01-02 15:04:05 [LEVEL] name: message key=value
//
// followed by a tab-indented exception block when an error is attached.
// Color toggles ANSI coloring of the level badge; everything else is emitted
// verbatim so the output stays grep-friendly.
type Text struct {
	Color bool
}

var _ Formatter = Text{}

// Format renders the entry without a trailing newline. Attached errors add an
// indented "exception:" block; a recorded stack trace follows it, one frame
// per line.
func (t Text) Format(entry Entry) []byte {
	buf := &bytes.Buffer{}

	buf.WriteString(entry.Time.Format(textTimestampLayout))
	buf.WriteString(" [")
	if t.Color {
		buf.WriteString(levelColor(entry.Level))
		buf.WriteString(entry.Level.String())
		buf.WriteString(ansiReset)
	} else {
		buf.WriteString(entry.Level.String())
	}
	buf.WriteString("] ")
	buf.WriteString(entry.Logger)
	buf.WriteString(": ")
	buf.WriteString(entry.Message)

	for _, attr := range entry.Attrs {
		appendTextAttr(buf, "", attr)
	}

	if entry.Err != nil {
		exc := ExceptionFromError(entry.Err)
		fmt.Fprintf(buf, "\n\texception: %s: %s", exc.Type, exc.Message)
		if exc.StackTrace != "" {
			for _, frame := range strings.Split(strings.Trim(exc.StackTrace, "\n"), "\n") {
				buf.WriteString("\n\t")
				buf.WriteString(frame)
			}
		}
	}

	return buf.Bytes()
}

func appendTextAttr(buf *bytes.Buffer, prefix string, attr slog.Attr) {
	if attr.Key == "" {
		return
	}
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		for _, member := range value.Group() {
			appendTextAttr(buf, key, member)
		}
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(key)
	buf.WriteByte('=')
	buf.WriteString(textValue(value))
}

func textValue(value slog.Value) string {
	var text string
	switch value.Kind() {
	case slog.KindTime:
		text = value.Time().Format(time.RFC3339Nano)
	default:
		text = value.String()
	}
	if strings.ContainsAny(text, " \t\n\"=") {
		return strconv.Quote(text)
	}
	return text
}
