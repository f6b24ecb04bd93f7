package handler

import (
	"net/http"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/handler/payload"
	"github.com/inkpress/pkg/endpoint"
)

type PingHandler struct {
	DB *database.Connection
}

func MakePingHandler(db *database.Connection) PingHandler {
	return PingHandler{DB: db}
}

func (h PingHandler) Handle(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	data := payload.PingResponse{
		Message:  "pong",
		DateTime: time.Now().UTC().Format(time.RFC3339),
		Database: "up",
	}

	if err := h.DB.Ping(); err != nil {
		return &endpoint.ApiError{
			Message: "database unavailable",
			Status:  http.StatusServiceUnavailable,
			Err:     err,
		}
	}

	if err := endpoint.NewNoCacheResponse(w, r).RespondOk(data); err != nil {
		return endpoint.ServerError("could not encode ping response", err)
	}

	return nil
}
