package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/inkpress/pkg/portal"
)

func TestNewApiHandler(t *testing.T) {
	h := NewApiHandler(func(w http.ResponseWriter, r *http.Request) *ApiError {

		return &ApiError{
			Message: "bad",
			Status:  http.StatusBadRequest,
			Err:     errors.New("bad"),
		}
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}

	var resp ErrorResponse

	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Error == "" || resp.Status != http.StatusBadRequest {
		t.Fatalf("invalid response")
	}
}

func TestNewApiHandlerWritesValidationData(t *testing.T) {
	h := NewApiHandler(func(w http.ResponseWriter, r *http.Request) *ApiError {
		return UnprocessableEntity("post", map[string]any{"display_title": "Title is required"})
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/blog/posts", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Data["display_title"] != "Title is required" {
		t.Fatalf("unexpected data: %#v", resp.Data)
	}
}

func TestNewApiHandlerLeavesSuccessfulResponsesAlone(t *testing.T) {
	h := NewApiHandler(func(w http.ResponseWriter, r *http.Request) *ApiError {
		return Redirect(w, r, "/blog/posts")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/blog/posts/missing", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d", rec.Code)
	}

	if got := rec.Header().Get("Location"); got != "/blog/posts" {
		t.Fatalf("unexpected location %s", got)
	}
}

func TestSentryLevel(t *testing.T) {
	cases := map[int]sentry.Level{
		http.StatusUnprocessableEntity: sentry.LevelInfo,
		http.StatusTooManyRequests:     sentry.LevelInfo,
		http.StatusBadRequest:          sentry.LevelWarning,
		http.StatusInternalServerError: sentry.LevelError,
		http.StatusBadGateway:          sentry.LevelError,
	}

	for status, want := range cases {
		if got := sentryLevel(status); got != want {
			t.Fatalf("%d: expected %s, got %s", status, want, got)
		}
	}
}

func TestRequestIDPrefersContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(portal.RequestIDHeader, " header-id ")

	if got := requestID(req); got != "header-id" {
		t.Fatalf("expected header request id, got %q", got)
	}

	req = req.WithContext(context.WithValue(req.Context(), portal.RequestIDKey, "context-id"))

	if got := requestID(req); got != "context-id" {
		t.Fatalf("expected context request id, got %q", got)
	}
}

func TestErrorChainUnwrapsEveryLayer(t *testing.T) {
	root := errors.New("root")
	wrapped := fmt.Errorf("query posts: %w", root)

	chain := errorChain(wrapped)
	if len(chain) != 2 || chain[0] != wrapped.Error() || chain[1] != "root" {
		t.Fatalf("unexpected chain %#v", chain)
	}

	if errorChain(nil) != nil {
		t.Fatalf("nil error should give an empty chain")
	}
}

func TestEnrichScope(t *testing.T) {
	scope := sentry.NewScope()

	req := httptest.NewRequest("POST", "/blog/posts", nil)
	req.SetPathValue("subsite", "blog")
	req = req.WithContext(context.WithValue(req.Context(), portal.AuthAccountNameKey, "admin"))

	enrichScope(scope, req, ServerError("could not save post", errors.New("disk full")))

	event := scope.ApplyToEvent(sentry.NewEvent(), nil, nil)
	if event == nil {
		t.Fatalf("expected an event")
	}

	if event.Level != sentry.LevelError {
		t.Fatalf("expected error level, got %s", event.Level)
	}

	want := map[string]string{
		"http.method":      "POST",
		"http.route":       "/blog/posts",
		"http.status_code": "500",
		"inkpress.subsite": "blog",
	}

	for key, value := range want {
		if event.Tags[key] != value {
			t.Fatalf("tag %s: expected %q, got %q", key, value, event.Tags[key])
		}
	}

	if _, ok := event.Tags["http.request_id"]; ok {
		t.Fatalf("empty request id should not be tagged")
	}

	if event.User.Username != "admin" {
		t.Fatalf("expected the account on the event, got %q", event.User.Username)
	}
}

func TestEnrichScopeUsesWarningForBadRequests(t *testing.T) {
	scope := sentry.NewScope()

	enrichScope(scope, httptest.NewRequest("GET", "/blog/posts", nil), BadRequestError("page"))

	if event := scope.ApplyToEvent(sentry.NewEvent(), nil, nil); event.Level != sentry.LevelWarning {
		t.Fatalf("expected warning level, got %s", event.Level)
	}
}
