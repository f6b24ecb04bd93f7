package endpoint

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func pingMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func corsOrigin(t *testing.T, handler http.Handler, origin string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", origin)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec.Header().Get("Access-Control-Allow-Origin")
}

func TestNewServerHandlerAllowsConfiguredOrigins(t *testing.T) {
	handler := NewServerHandler(ServerHandlerConfig{
		Mux:          pingMux(),
		IsProduction: true,
		Origins:      []string{"https://blog.example.test"},
	})

	if got := corsOrigin(t, handler, "https://blog.example.test"); got != "https://blog.example.test" {
		t.Fatalf("expected the configured origin, got %q", got)
	}

	if got := corsOrigin(t, handler, devOrigin); got != "" {
		t.Fatalf("production must not allow the dev origin, got %q", got)
	}
}

func TestNewServerHandlerAllowsDevOriginLocally(t *testing.T) {
	wrapped := false

	handler := NewServerHandler(ServerHandlerConfig{
		Mux: pingMux(),
		Wrap: func(h http.Handler) http.Handler {
			wrapped = true
			return h
		},
	})

	if got := corsOrigin(t, handler, devOrigin); got != devOrigin {
		t.Fatalf("expected the dev origin, got %q", got)
	}

	if !wrapped {
		t.Fatalf("expected wrap callback to run")
	}
}

func TestNewServerHandlerWithoutMux(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServerHandler(ServerHandlerConfig{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestRunServerStopsWithContext(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	server := &http.Server{Addr: addr, Handler: pingMux(), ReadHeaderTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- RunServer(ctx, server) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/ping")
		if err == nil {
			_ = resp.Body.Close()
			break
		}

		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}

		time.Sleep(20 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean shutdown, got %v", err)
		}
	case <-time.After(shutdownGrace):
		t.Fatalf("server did not stop")
	}
}

func TestRunServerRejectsNil(t *testing.T) {
	if err := RunServer(context.Background(), nil); err == nil {
		t.Fatalf("expected error")
	}
}
