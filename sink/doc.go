// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package sink implements the output destinations a configured logger fans
// out to: colored console, rotated file, logstash TCP shipping and SMTP email
// notification. Every sink pairs exactly one formatter with one destination
// and serializes its own writes, so a single sink instance can be shared by
// any number of goroutines.
//
// Sinks never block a caller indefinitely: network writes carry deadlines,
// email delivery is asynchronous with a bounded queue, and records that
// cannot be delivered are dropped with an error the logger turns into a
// one-time console warning.
package sink
