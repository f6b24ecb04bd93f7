package endpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
)

const shutdownGrace = 10 * time.Second

// RunServer serves until ctx is cancelled, then drains in-flight requests for
// up to shutdownGrace before closing the listener.
func RunServer(ctx context.Context, server *http.Server) error {
	if server == nil {
		return errors.New("nil http server")
	}

	served := make(chan error, 1)

	go func() {
		slog.Info("starting server", "address", server.Addr)
		served <- server.ListenAndServe()
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("listen and serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server", "address", server.Addr)

	drain, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(drain); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown server: %w", err)
		}

		slog.Warn("graceful shutdown timed out, closing connections", "address", server.Addr)
		_ = server.Close()
	}

	if err := <-served; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

type ServerHandlerConfig struct {
	Mux          http.Handler
	IsProduction bool
	// Origins may call the API with credentials. Outside production the local
	// front-end dev server is always allowed too.
	Origins []string
	Wrap    func(http.Handler) http.Handler
}

const devOrigin = "http://localhost:5173"

func NewServerHandler(cfg ServerHandlerConfig) http.Handler {
	if cfg.Mux == nil {
		return http.NotFoundHandler()
	}

	origins := append([]string(nil), cfg.Origins...)
	if !cfg.IsProduction {
		origins = append(origins, devOrigin)
	}

	handler := cfg.Mux

	if len(origins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Authorization", "Content-Type", "If-None-Match", "X-Request-ID"},
			ExposedHeaders: []string{"ETag", "X-Cache", "X-Request-ID"},
			MaxAge:         600,
			// The session travels in a cookie.
			AllowCredentials: true,
		}).Handler(handler)
	}

	if cfg.Wrap != nil {
		handler = cfg.Wrap(handler)
	}

	return handler
}
