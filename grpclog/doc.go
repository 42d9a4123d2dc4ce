// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package grpclog logs gRPC calls through a configured logger. Each call gets
// a request ID (incoming x-request-id metadata or a generated UUID) and a
// call-scoped logger stored in the handler context, so server code keeps its
// records correlated.
package grpclog
