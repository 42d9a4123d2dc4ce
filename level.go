// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package unilog

import (
	"github.com/mia-platform/unilog/format"
)

// Level is the severity scale shared by loggers, sinks and formatters,
// ordered DEBUG < INFO < WARNING < ERROR < CRITICAL.
type Level = format.Level

const (
	DEBUG    = format.DEBUG
	INFO     = format.INFO
	WARNING  = format.WARNING
	ERROR    = format.ERROR
	CRITICAL = format.CRITICAL
)

// LevelFromString maps a case-insensitive level name ("WARN" included) to
// its Level; unknown names fall back to DEBUG.
func LevelFromString(level string) Level {
	return format.LevelFromString(level)
}
