// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package fiberlog logs Fiber requests through a configured logger. Each
// request gets a request ID (incoming x-request-id or a generated UUID) and a
// request-scoped logger stored in the user context, so handlers keep their
// records correlated.
package fiberlog
