// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package receiver contains the development receiver for shipped log records.
// It accepts newline-delimited JSON documents over TCP, replays them on a
// console sink, and exposes health and statistics routes over HTTP using the
// Fiber framework.
package receiver
