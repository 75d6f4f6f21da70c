// Package grpcmw provides a gRPC unary server interceptor that writes
// one access-log line per RPC through a rotolog Logger.
//
// The real interceptor is compiled in with the 'grpc' build tag,
// mirroring how optional integrations are gated elsewhere; without the
// tag a stub that fails loudly is used instead.
package grpcmw

import (
	"github.com/hyp3rd/rotolog"
)

// Option defines a configuration option for the gRPC middleware.
type Option func(*options)

type options struct {
	logger      rotolog.Logger
	skipMethods map[string]struct{}
}

// WithLogger sets the logger the interceptor writes access lines to.
// Without a logger the interceptor is a pass-through.
func WithLogger(logger rotolog.Logger) Option {
	return func(o *options) {
		if o == nil || logger == nil {
			return
		}

		o.logger = logger
	}
}

// WithSkipMethod excludes a full method name (for example
// "/grpc.health.v1.Health/Check") from access logging.
func WithSkipMethod(fullMethod string) Option {
	return func(o *options) {
		if o == nil || fullMethod == "" {
			return
		}

		if o.skipMethods == nil {
			o.skipMethods = make(map[string]struct{})
		}

		o.skipMethods[fullMethod] = struct{}{}
	}
}
