package middleware

import (
	"net/http"

	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/portal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/inkpress/pkg/middleware"

// Tracing opens a server span per request, continuing any trace the caller
// propagated. It is a no-op while the global provider is the default one.
func Tracing(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := r.Pattern
		if route == "" {
			route = r.Method + " " + r.URL.Path
		}

		ctx, span := otel.Tracer(tracerName).Start(ctx, route, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		)

		if id, ok := r.Context().Value(portal.RequestIDKey).(string); ok {
			span.SetAttributes(attribute.String("http.request.id", id))
		}

		apiErr := next(w, r.WithContext(ctx))

		if apiErr != nil {
			span.SetAttributes(attribute.Int("http.response.status_code", apiErr.Status))

			if apiErr.Status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, apiErr.Message)
			}
		}

		return apiErr
	}
}
