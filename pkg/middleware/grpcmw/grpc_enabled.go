//go:build grpc

package grpcmw

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func actualOptions(opts ...Option) options {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// UnaryServerInterceptor writes one access-log line per unary RPC:
// full method, outcome code and handler duration. Failed RPCs are
// logged at error level, successful ones at info level.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := actualOptions(opts...)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if cfg.logger == nil {
			return handler(ctx, req)
		}

		if _, skip := cfg.skipMethods[info.FullMethod]; skip {
			return handler(ctx, req)
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		code := status.Code(err)

		if err != nil {
			cfg.logger.Errorf("%s code=%s duration=%s", info.FullMethod, code, elapsed)
		} else {
			cfg.logger.Infof("%s code=%s duration=%s", info.FullMethod, code, elapsed)
		}

		return resp, err
	}
}
