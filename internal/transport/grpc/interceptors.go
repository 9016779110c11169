package grpc

import (
	"context"
	"net"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"clinicbook/internal/ratelimit"
)

func DefaultRequestTimeoutInterceptor(timeout time.Duration) gogrpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

// writeMethods are the RPCs subject to per-peer rate limiting.
var writeMethods = map[string]bool{
	"/" + serviceName + "/CreateAppointment":     true,
	"/" + serviceName + "/DeleteAppointment":     true,
	"/" + serviceName + "/DeleteAllAppointments": true,
}

func RateLimitInterceptor(l *ratelimit.Limiter) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, next gogrpc.UnaryHandler) (any, error) {
		if !writeMethods[info.FullMethod] {
			return next(ctx, req)
		}
		key := "unknown"
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			key = peerHost(p.Addr.String())
		}
		if !l.Allow(key) {
			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return next(ctx, req)
	}
}

// NewServer builds a grpc server that speaks the wire codec and has the
// appointments service registered.
func NewServer(srv AppointmentsServiceServer, timeout time.Duration, limiter *ratelimit.Limiter, opts ...gogrpc.ServerOption) *gogrpc.Server {
	base := []gogrpc.ServerOption{
		gogrpc.ForceServerCodec(Codec{}),
		gogrpc.ChainUnaryInterceptor(
			DefaultRequestTimeoutInterceptor(timeout),
			RateLimitInterceptor(limiter),
		),
	}
	s := gogrpc.NewServer(append(base, opts...)...)
	RegisterAppointmentsServiceServer(s, srv)
	return s
}

func peerHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
