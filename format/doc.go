// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package format renders log entries into their wire and console
// representations. It defines the severity scale shared by the whole module,
// the Entry record model, and the two formatting strategies: JSON for
// structured shipping and Text for humans. Formatters are stateless and never
// fail; malformed values degrade to best-effort strings instead of dropping
// the record.
package format
