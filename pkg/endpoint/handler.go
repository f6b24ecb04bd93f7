package endpoint

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
)

// NewApiHandler turns an ApiHandler into an http.HandlerFunc. A returned
// ApiError is logged, reported to Sentry and written as a JSON error body.
func NewApiHandler(fn ApiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiErr := fn(w, r)
		if apiErr == nil {
			return
		}

		level := slog.LevelWarn
		if apiErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		attrs := []any{"message", apiErr.Message, "status", apiErr.Status, "path", r.URL.Path}
		if apiErr.Err != nil {
			attrs = append(attrs, "error", apiErr.Err)
		}

		slog.Log(r.Context(), level, "API Error", attrs...)

		captureApiError(r, apiErr)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(apiErr.Status)

		resp := ErrorResponse{
			Error:  apiErr.Message,
			Status: apiErr.Status,
			Data:   apiErr.Data,
		}

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.ErrorContext(r.Context(), "Could not encode error response", "error", err)
		}
	}
}

func captureApiError(r *http.Request, apiErr *ApiError) {
	cause := error(apiErr)
	if apiErr.Err != nil {
		cause = apiErr.Err
	}

	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		enrichScope(scope, r, apiErr)
		hub.CaptureException(cause)
	})
}
