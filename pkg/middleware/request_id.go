package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/portal"
)

const maxRequestIDLength = 128

// RequestID keeps a caller supplied X-Request-ID or generates one, and echoes
// it back on the response.
func RequestID(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		id := strings.TrimSpace(r.Header.Get(portal.RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(portal.RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), portal.RequestIDKey, id)

		return next(w, r.WithContext(ctx))
	}
}
