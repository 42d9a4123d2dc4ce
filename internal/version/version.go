// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package version formats the build metadata for display.
package version

import (
	"runtime"

	"github.com/mia-platform/unilog/internal/info"
)

var (
	// Version is dynamically set by the ci or overridden by the Makefile.
	Version = info.Version
	// BuildDate is dynamically set at build time by the ci or overridden in the Makefile.
	BuildDate = info.BuildDate
)

// ServiceVersionInformation returns the version string shown by the version
// command.
func ServiceVersionInformation() string {
	versionInformation := Version
	if BuildDate != "" {
		versionInformation += " (" + BuildDate + ")"
	}

	return versionInformation + ", Go Version: " + runtime.Version()
}
