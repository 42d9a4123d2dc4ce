// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package compat adapts configured loggers to third-party logging
// interfaces, so libraries that demand their own logger type can write
// through the same sinks as the rest of the application. Currently it covers
// hashicorp/go-hclog consumers.
package compat
