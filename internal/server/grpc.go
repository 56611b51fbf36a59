package server

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// New builds a gRPC server with the given unary interceptor chain, registers
// the standard health service, and hands the registrar to register so the
// caller can attach its domain services.
func New(register func(grpc.ServiceRegistrar), unary ...grpc.UnaryServerInterceptor) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(unary...))
	healthpb.RegisterHealthServer(s, health.NewServer())
	if register != nil {
		register(s)
	}
	return s
}

// Serve listens on addr and serves s until ctx is done, then drains in-flight
// RPCs with a graceful stop.
func Serve(ctx context.Context, s *grpc.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.GracefulStop()
	}()
	err = s.Serve(lis)
	<-done
	return err
}
