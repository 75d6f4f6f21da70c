//go:build !grpc

package grpcmw

import (
	"context"

	"github.com/hyp3rd/ewrap"
	"google.golang.org/grpc"
)

// ErrGRPCNotEnabled reports that the binary was built without the
// 'grpc' tag, so no access-log interceptor is available.
var ErrGRPCNotEnabled = ewrap.New("access logging over gRPC requires building with the 'grpc' tag")

// UnaryServerInterceptor returns an interceptor that fails every RPC
// with ErrGRPCNotEnabled. Failing loudly beats silently skipping the
// access log the caller asked for.
//
//nolint:revive // opts are accepted for signature parity with the tagged build.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return nil, ErrGRPCNotEnabled
	}
}
