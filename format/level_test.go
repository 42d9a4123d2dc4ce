// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		expected Level
	}{
		"debug lower case":            {input: "debug", expected: DEBUG},
		"info upper case":             {input: "INFO", expected: INFO},
		"warning canonical":           {input: "WARNING", expected: WARNING},
		"warn short alias":            {input: "warn", expected: WARNING},
		"error mixed case":            {input: "Error", expected: ERROR},
		"critical":                    {input: "CRITICAL", expected: CRITICAL},
		"surrounding whitespace":      {input: "  info  ", expected: INFO},
		"unknown falls back to debug": {input: "verbose", expected: DEBUG},
		"empty falls back to debug":   {input: "", expected: DEBUG},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expected, LevelFromString(test.input))
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		level    Level
		expected string
	}{
		"debug":              {level: DEBUG, expected: "DEBUG"},
		"info":               {level: INFO, expected: "INFO"},
		"warning":            {level: WARNING, expected: "WARNING"},
		"error":              {level: ERROR, expected: "ERROR"},
		"critical":           {level: CRITICAL, expected: "CRITICAL"},
		"between thresholds": {level: ERROR + 1, expected: "ERROR"},
		"above critical":     {level: CRITICAL + 2, expected: "CRITICAL"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expected, test.level.String())
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	t.Parallel()

	assert.Less(t, DEBUG, INFO)
	assert.Less(t, INFO, WARNING)
	assert.Less(t, WARNING, ERROR)
	assert.Less(t, ERROR, CRITICAL)
}

func TestLevelSlogConversion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelWarn, WARNING.Slog())
	assert.Equal(t, WARNING, LevelFromSlog(slog.LevelWarn))
	assert.Equal(t, slog.LevelError+4, CRITICAL.Slog())
}
