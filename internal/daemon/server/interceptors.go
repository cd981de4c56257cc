package server

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/kruzic-io/kruzic/internal/api/platformv1"
	"github.com/kruzic-io/kruzic/internal/daemon/identity"
)

func firstValue(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

// authInterceptor resolves the caller from request metadata.
func authInterceptor(resolver *identity.Resolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		caller := resolver.Resolve(
			firstValue(md, platformv1.AuthorizationKey),
			firstValue(md, platformv1.DeviceKey),
		)
		return handler(identity.WithCaller(ctx, caller), req)
	}
}

// faultInterceptor fails calls of methods with an injected fault.
func faultInterceptor(faults *FaultRegistry) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if f := faults.Check(path.Base(info.FullMethod)); f != nil {
			return nil, status.Error(codes.Unavailable, f.Message)
		}
		return handler(ctx, req)
	}
}

// observeInterceptor records metrics, telemetry and a debug log line per
// call. It runs after authInterceptor so the caller is known.
func (s *Server) observeInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		method := path.Base(info.FullMethod)
		code := status.Code(err).String()
		caller := identity.FromContext(ctx).Namespace()

		s.metrics.observeCall(method, code, elapsed)
		s.telemetry.Capture(caller, method, code)
		s.logger.Debug("rpc",
			zap.String("method", method),
			zap.String("code", code),
			zap.String("caller", caller),
			zap.Duration("elapsed", elapsed),
		)
		return resp, err
	}
}
