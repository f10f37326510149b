package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	identityservice "contacthub/backend/internal/identity/service"
	"contacthub/backend/internal/server/httpjson"
	"contacthub/backend/internal/server/middleware"
	"contacthub/backend/internal/user/domain"
	userservice "contacthub/backend/internal/user/service"
)

// Handler serves the user and authentication endpoints.
type Handler struct {
	users *userservice.Service
	auth  *identityservice.AuthService
	log   *zap.Logger
}

func NewHandler(users *userservice.Service, auth *identityservice.AuthService, log *zap.Logger) *Handler {
	return &Handler{users: users, auth: auth, log: log}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Active    bool      `json:"is_active"`
	Superuser bool      `json:"is_superuser"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Active:    u.Active,
		Superuser: u.Superuser,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register handles POST /api/v1/users/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, userservice.ErrEmailAlreadyRegistered) {
			httpjson.Error(w, http.StatusBadRequest, "email already registered")
			return
		}
		var verr *userservice.ValidationError
		if errors.As(err, &verr) {
			httpjson.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.log.Error("register failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpjson.Write(w, http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login handles POST /api/v1/users/login. Wrong password, unknown email
// and disabled account all answer the same 401.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, expiresAt, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identityservice.ErrInvalidCredentials) || errors.Is(err, identityservice.ErrAccountDisabled) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			httpjson.Error(w, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpjson.Write(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// Me handles GET /api/v1/users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.GetUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponse(u))
}

type updateMeRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

// UpdateMe handles PUT /api/v1/users/me.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.GetUser(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.users.Update(r.Context(), u, userservice.UpdateParams{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, userservice.ErrEmailAlreadyRegistered) {
			httpjson.Error(w, http.StatusBadRequest, "email already registered")
			return
		}
		var verr *userservice.ValidationError
		if errors.As(err, &verr) {
			httpjson.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.log.Error("update user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpjson.Write(w, http.StatusOK, toUserResponse(updated))
}

type userListResponse struct {
	Items    []userResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// List handles GET /api/v1/users. Superuser only; the privilege gate runs
// in middleware.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := userservice.ListParams{
		Email:    q.Get("email"),
		FullName: q.Get("full_name"),
		Skip:     queryInt(q.Get("skip"), 0),
		Limit:    queryInt(q.Get("limit"), 0),
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid active filter")
			return
		}
		params.Active = &active
	}

	users, total, err := h.users.List(r.Context(), params)
	if err != nil {
		h.log.Error("list users failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	pageSize := params.Limit
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	httpjson.Write(w, http.StatusOK, userListResponse{
		Items:    items,
		Total:    total,
		Page:     params.Skip/pageSize + 1,
		PageSize: pageSize,
	})
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
