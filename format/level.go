// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level is the severity of a log entry. Levels are ordered: an entry passes a
// threshold when its level is greater than or equal to it. The numeric values
// line up with log/slog so handlers from either world can be mixed freely;
// CRITICAL sits above slog.LevelError, which has no native equivalent.
type Level slog.Level

const (
	DEBUG    Level = Level(slog.LevelDebug)
	INFO     Level = Level(slog.LevelInfo)
	WARNING  Level = Level(slog.LevelWarn)
	ERROR    Level = Level(slog.LevelError)
	CRITICAL Level = Level(slog.LevelError + 4)
)

// LevelFromString maps a case-insensitive level name to its Level. Both
// "WARNING" and the short "WARN" are accepted. Unrecognized names fall back
// to DEBUG so a typo in an environment variable widens the output instead of
// silencing it.
func LevelFromString(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	case "CRITICAL":
		return CRITICAL
	default:
		return DEBUG
	}
}

// String returns the canonical upper-case name of the level. Levels between
// the named ones inherit the name of the nearest lower level, mirroring how
// slog renders custom severities.
func (l Level) String() string {
	switch {
	case l >= CRITICAL:
		return "CRITICAL"
	case l >= ERROR:
		return "ERROR"
	case l >= WARNING:
		return "WARNING"
	case l >= INFO:
		return "INFO"
	case l >= DEBUG:
		return "DEBUG"
	default:
		return fmt.Sprintf("DEBUG%+d", int(l-DEBUG))
	}
}

// Slog converts the level to its log/slog equivalent.
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

// LevelFromSlog converts a log/slog level to a Level.
func LevelFromSlog(l slog.Level) Level {
	return Level(l)
}
