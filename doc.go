// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package unilog configures named loggers wired to console, file, logstash
// and email sinks from a single entry point:
//
//	log := unilog.Setup("app.db", unilog.INFO)
//	log.Info("connection established", "host", dbHost)
//
// Sink installation is controlled by environment variables (ENABLE_FILE_LOGGING,
// ENABLE_LOGSTASH, ENABLE_EMAIL_NOTIFICATION and friends) so deployments
// change logging behavior without code changes. Setup is idempotent per name
// and never fails: a sink that cannot be attached is skipped with a one-time
// console warning and the application keeps logging to the sinks that work.
//
// Loggers also expose a standard *slog.Logger over the same sinks via Slog,
// and subpackages adapt the other direction: fiberlog and grpclog feed
// request logs in, compat serves hclog consumers, logtest captures records
// in tests.
package unilog
