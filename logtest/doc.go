// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logtest provides an in-memory sink for asserting on log output in
// consumer test suites, without touching files, sockets or SMTP.
package logtest
