package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkpress/pkg/endpoint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func withRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)

	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(t.Context())
	})

	return exporter
}

func TestTracingRecordsServerSpan(t *testing.T) {
	exporter := withRecorder(t)

	var inside trace.SpanContext

	handler := RequestID(Tracing(func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		inside = trace.SpanContextFromContext(r.Context())
		return nil
	}))

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/posts", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}

	if spans[0].SpanKind != trace.SpanKindServer || spans[0].Name != "GET /blog/posts" {
		t.Fatalf("unexpected span %s %v", spans[0].Name, spans[0].SpanKind)
	}

	if !inside.IsValid() || inside.SpanID() != spans[0].SpanContext.SpanID() {
		t.Fatalf("expected the handler to see the span in its context")
	}
}

func TestTracingMarksServerErrors(t *testing.T) {
	exporter := withRecorder(t)

	handler := Tracing(func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		return &endpoint.ApiError{Message: "database down", Status: http.StatusServiceUnavailable}
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Status.Code != codes.Error {
		t.Fatalf("expected an error span, got %+v", spans)
	}
}
