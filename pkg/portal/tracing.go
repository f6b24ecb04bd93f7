package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkpress/metal/env"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const tracingShutdownGrace = 5 * time.Second

// TracerProvider owns the SDK provider installed as the global one. Provider
// is nil while tracing is off, leaving the default no-op tracer in place.
type TracerProvider struct {
	Provider *sdktrace.TracerProvider
}

func NewTracerProvider(environment *env.Environment) (*TracerProvider, error) {
	settings := environment.Tracing

	if !settings.Enabled {
		return &TracerProvider{}, nil
	}

	// The endpoint scheme decides between TLS and plain http.
	exporter, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpointURL(settings.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter for [%s]: %w", settings.Endpoint, err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", settings.ServiceName),
			attribute.String("deployment.environment", environment.App.Type),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build tracing resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	slog.Info("tracing enabled", "endpoint", settings.Endpoint, "service", settings.ServiceName)

	return &TracerProvider{Provider: provider}, nil
}

// Shutdown flushes pending spans.
func (tp *TracerProvider) Shutdown() error {
	if tp == nil || tp.Provider == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownGrace)
	defer cancel()

	return tp.Provider.Shutdown(ctx)
}
