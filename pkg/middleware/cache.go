package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/inkpress/pkg/cache"
	"github.com/inkpress/pkg/endpoint"
)

const ListingCacheTTL = 300 * time.Second

type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bodyRecorder) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}

	b.ResponseWriter.WriteHeader(status)
}

func (b *bodyRecorder) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}

	b.body.Write(p)

	return b.ResponseWriter.Write(p)
}

// CacheMiddleware serves repeated GETs of a JSON listing from memory for TTL.
// Entries are keyed by path and query and only successful bodies are kept.
type CacheMiddleware struct {
	Store *cache.TTLCache
	TTL   time.Duration
}

func (m CacheMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		if m.Store == nil || r.Method != http.MethodGet {
			return next(w, r)
		}

		key := r.URL.Path + "?" + r.URL.RawQuery

		if body, ok := m.Store.Get(key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)

			_, _ = w.Write(body)

			return nil
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &bodyRecorder{ResponseWriter: w}

		apiErr := next(recorder, r)
		if apiErr == nil && recorder.status == http.StatusOK {
			m.Store.Set(key, bytes.Clone(recorder.body.Bytes()), m.TTL)
		}

		return apiErr
	}
}
