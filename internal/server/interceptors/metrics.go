package interceptors

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// MetricsUnary returns a unary server interceptor that records a call count
// and duration histogram per RPC method and status code on the given meter.
func MetricsUnary(meter metric.Meter) (grpc.UnaryServerInterceptor, error) {
	calls, err := meter.Int64Counter("rpc.server.calls",
		metric.WithDescription("Completed unary RPCs"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("rpc.server.duration",
		metric.WithDescription("Unary RPC duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := metric.WithAttributes(
			attribute.String("rpc.method", info.FullMethod),
			attribute.String("rpc.code", status.Code(err).String()),
		)
		calls.Add(ctx, 1, attrs)
		duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
		return resp, err
	}, nil
}
