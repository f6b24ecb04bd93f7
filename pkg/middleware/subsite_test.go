package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkpress/metal/env"
	"github.com/inkpress/pkg/endpoint"
)

func serveSubsite(t *testing.T, target string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	called := false
	m := SubsiteMiddleware{Site: env.SiteEnvironment{Subsites: []string{"blog", "notes"}}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{subsite}/posts", endpoint.NewApiHandler(m.Handle(func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		called = true
		return nil
	})))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec, called
}

func TestSubsiteMiddlewarePassesKnownSubsites(t *testing.T) {
	_, called := serveSubsite(t, "/notes/posts")

	if !called {
		t.Fatalf("known subsite should reach the handler")
	}
}

func TestSubsiteMiddlewareRedirectsUnknownSubsites(t *testing.T) {
	rec, called := serveSubsite(t, "/gone/posts?page=2")

	if called {
		t.Fatalf("unknown subsite must not reach the handler")
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	if got := rec.Header().Get("Location"); got != "/blog/posts?page=2" {
		t.Fatalf("unexpected location %s", got)
	}
}
