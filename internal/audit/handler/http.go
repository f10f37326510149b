package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"contacthub/backend/internal/audit/domain"
	auditrepo "contacthub/backend/internal/audit/repository"
	"contacthub/backend/internal/server/httpjson"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// Handler serves the audit log read endpoints. All routes are gated to
// superusers by the router; events are written by internal/audit.Logger,
// never through HTTP.
type Handler struct {
	repo auditrepo.Repository
	log  *zap.Logger
}

func NewHandler(repo auditrepo.Repository, log *zap.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

type auditLogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toAuditLogResponse(a *domain.AuditLog) auditLogResponse {
	return auditLogResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		Resource:  a.Resource,
		IP:        a.IP,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}

// Get handles GET /api/v1/audit-logs/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.log.Error("get audit log failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if a == nil {
		httpjson.Error(w, http.StatusNotFound, "audit log not found")
		return
	}
	httpjson.Write(w, http.StatusOK, toAuditLogResponse(a))
}

type listResponse struct {
	Items []auditLogResponse `json:"items"`
}

// ListByUser handles GET /api/v1/audit-logs?user_id=...&skip=&limit=,
// newest first.
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	if userID == "" {
		httpjson.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	skip := queryInt(q.Get("skip"), 0)
	if skip < 0 {
		skip = 0
	}
	limit := queryInt(q.Get("limit"), defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	logs, err := h.repo.ListByUser(r.Context(), userID, int32(limit), int32(skip))
	if err != nil {
		h.log.Error("list audit logs failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]auditLogResponse, 0, len(logs))
	for _, a := range logs {
		items = append(items, toAuditLogResponse(a))
	}
	httpjson.Write(w, http.StatusOK, listResponse{Items: items})
}

func queryInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
