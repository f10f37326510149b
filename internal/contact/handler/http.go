package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"contacthub/backend/internal/contact/domain"
	contactservice "contacthub/backend/internal/contact/service"
	"contacthub/backend/internal/server/httpjson"
	"contacthub/backend/internal/server/middleware"
)

// Handler serves the owner-scoped contact endpoints. The auth middleware
// guarantees an authenticated user is present in the request context.
type Handler struct {
	contacts *contactservice.Service
	log      *zap.Logger
}

func NewHandler(contacts *contactservice.Service, log *zap.Logger) *Handler {
	return &Handler{contacts: contacts, log: log}
}

type contactResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toContactResponse(c *domain.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type createRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Create handles POST /api/v1/contacts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.GetUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.contacts.Create(r.Context(), u.ID, contactservice.CreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		h.writeError(w, err, "create contact failed")
		return
	}

	httpjson.Write(w, http.StatusCreated, toContactResponse(c))
}

// Get handles GET /api/v1/contacts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.GetUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	c, err := h.contacts.Get(r.Context(), u.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "get contact failed")
		return
	}

	httpjson.Write(w, http.StatusOK, toContactResponse(c))
}

type updateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// Update handles PUT /api/v1/contacts/{id}. Absent fields keep their value.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.GetUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.contacts.Update(r.Context(), u.ID, chi.URLParam(r, "id"), contactservice.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		h.writeError(w, err, "update contact failed")
		return
	}

	httpjson.Write(w, http.StatusOK, toContactResponse(c))
}

// Delete handles DELETE /api/v1/contacts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.GetUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	if err := h.contacts.Delete(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "delete contact failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type listResponse struct {
	Items    []contactResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// List handles GET /api/v1/contacts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.GetUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	q := r.URL.Query()
	params := contactservice.ListParams{
		Search: q.Get("search"),
		Skip:   queryInt(q.Get("skip"), 0),
		Limit:  queryInt(q.Get("limit"), 0),
	}

	contacts, total, err := h.contacts.List(r.Context(), u.ID, params)
	if err != nil {
		h.writeError(w, err, "list contacts failed")
		return
	}

	items := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, toContactResponse(c))
	}
	pageSize := params.Limit
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	httpjson.Write(w, http.StatusOK, listResponse{
		Items:    items,
		Total:    total,
		Page:     params.Skip/pageSize + 1,
		PageSize: pageSize,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	var verr *contactservice.ValidationError
	switch {
	case errors.Is(err, contactservice.ErrContactNotFound):
		httpjson.Error(w, http.StatusNotFound, "contact not found")
	case errors.As(err, &verr):
		httpjson.Error(w, http.StatusBadRequest, verr.Error())
	default:
		h.log.Error(logMsg, zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
	}
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
