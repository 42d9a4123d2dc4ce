// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package grpclog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/mia-platform/unilog"
)

const (
	requestIDMetadataKey = "x-request-id"

	IncomingCallMessage  = "incoming call"
	CallCompletedMessage = "call completed"
)

// rpc is the struct of the log formatter.
type rpc struct {
	Service string `json:"service,omitempty"`
	Method  string `json:"method,omitempty"`
	Code    string `json:"code,omitempty"`
}

// splitFullMethod breaks a gRPC full method path into its service and method
// names. The path has the form "/package.Service/Method".
func splitFullMethod(fullMethod string) (string, string) {
	trimmed := strings.TrimPrefix(fullMethod, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[:i], trimmed[i+1:]
	}
	return "", trimmed
}

// GetCallID returns the request id from the incoming metadata, generating a
// random one when the client did not send any.
func GetCallID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDMetadataKey); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	// Generate a random uuid string. e.g. 16c9c1f2-c001-40d3-bbfe-48857367e7b5
	requestID, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return requestID.String()
}

func logIncomingCall(logger *unilog.Logger, service, method string) {
	logger.Debug(IncomingCallMessage, "rpc", rpc{Service: service, Method: method})
}

func logCallCompleted(logger *unilog.Logger, service, method string, err error, startTime time.Time) {
	logger.Info(CallCompletedMessage,
		"rpc", rpc{
			Service: service,
			Method:  method,
			Code:    status.Code(err).String(),
		},
		"responseTime", float64(time.Since(startTime).Milliseconds()),
	)
}

// UnaryServerInterceptor logs every unary call handled by the server. It
// logs the incoming call and its completion with the gRPC status code and
// latency, and stores a call-scoped logger in the handler context.
func UnaryServerInterceptor(logger *unilog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		service, method := splitFullMethod(info.FullMethod)
		callLogger := logger.With("reqId", GetCallID(ctx))

		logIncomingCall(callLogger, service, method)

		start := time.Now()
		resp, err := handler(unilog.WithContext(ctx, callLogger), req)

		logCallCompleted(callLogger, service, method, err, start)
		return resp, err
	}
}

// StreamServerInterceptor logs every streaming call handled by the server,
// mirroring UnaryServerInterceptor. The wrapped stream exposes the context
// carrying the call-scoped logger.
func StreamServerInterceptor(logger *unilog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		service, method := splitFullMethod(info.FullMethod)
		callLogger := logger.With("reqId", GetCallID(ss.Context()))

		logIncomingCall(callLogger, service, method)

		start := time.Now()
		err := handler(srv, &wrappedStream{
			ServerStream: ss,
			ctx:          unilog.WithContext(ss.Context(), callLogger),
		})

		logCallCompleted(callLogger, service, method, err, start)
		return err
	}
}

// wrappedStream overrides the stream context with the one carrying the
// call-scoped logger.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
