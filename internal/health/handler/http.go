package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"contacthub/backend/internal/server/httpjson"
)

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves GET /healthz. A nil pinger skips the database check.
type Handler struct {
	db  Pinger
	log *zap.Logger
}

func NewHandler(db Pinger, log *zap.Logger) *Handler {
	return &Handler{db: db, log: log}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.log.Warn("health check: database unreachable", zap.Error(err))
			httpjson.Write(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	httpjson.Write(w, http.StatusOK, healthResponse{Status: "ok"})
}
