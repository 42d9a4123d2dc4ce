// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package unilog

import (
	"sync"
)

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Setup configures and returns the logger registered under name in the
// package default registry. The registry is initialized once per process
// from the environment; a configuration that cannot be loaded degrades to
// DefaultConfig with a one-time console warning, so Setup never fails.
//
// Repeated calls with the same name return the same logger with its level
// updated, never with duplicated sinks.
func Setup(name string, level Level) *Logger {
	return Default().Setup(name, level)
}

// Default returns the package default registry, initializing it from the
// environment on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		config, err := LoadConfig()
		defaultRegistry = NewRegistry(config)
		defaultRegistry.loadFailure = err
	})
	return defaultRegistry
}
