package observability

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the process-wide tracer. Spans are no-ops until SetupTracing
// installs a provider.
var Tracer trace.Tracer = otel.Tracer("tsreap")

// SetupTracing installs an OTLP gRPC trace exporter when
// OTEL_EXPORTER_OTLP_ENDPOINT is set. The returned shutdown func flushes
// pending spans; it is non-nil even when tracing stays disabled.
func SetupTracing(ctx context.Context) (func(context.Context) error, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("tsreap")

	return provider.Shutdown, nil
}
