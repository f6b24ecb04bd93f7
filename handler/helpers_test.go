package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/portal"
)

func serve(t *testing.T, pattern string, h endpoint.ApiHandler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(pattern, endpoint.NewApiHandler(h))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func signedIn(req *http.Request, login string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), portal.AuthAccountNameKey, login))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}

	return out
}
