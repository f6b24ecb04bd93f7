package llogs

import (
	"context"
	"log/slog"

	"github.com/inkpress/pkg/portal"
)

// ContextHandler stamps records logged with a request context with the
// request id set by the RequestID middleware.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := ctx.Value(portal.RequestIDKey).(string); ok && id != "" {
		record.AddAttrs(slog.String("request_id", id))
	}

	return h.Handler.Handle(ctx, record)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}
