package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	identityservice "contacthub/backend/internal/identity/service"
	"contacthub/backend/internal/server/httpjson"
	"contacthub/backend/internal/user/domain"
)

const bearerPrefix = "bearer "

// Auth gates protected routes behind a Bearer access token.
type Auth struct {
	svc *identityservice.AuthService
	log *zap.Logger
}

func NewAuth(svc *identityservice.AuthService, log *zap.Logger) *Auth {
	return &Auth{svc: svc, log: log}
}

// Require returns a middleware that validates the Authorization header and
// resolves the caller at the given privilege. On success the authenticated
// user is stored in the request context for GetUser.
func (a *Auth) Require(privilege domain.Privilege) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				unauthorized(w)
				return
			}

			u, err := a.svc.Authorize(r.Context(), token, privilege)
			if err != nil {
				switch {
				case errors.Is(err, identityservice.ErrInvalidToken):
					unauthorized(w)
				case errors.Is(err, identityservice.ErrInsufficientPrivilege):
					httpjson.Error(w, http.StatusForbidden, "insufficient privilege")
				default:
					a.log.Error("authorize failed", zap.Error(err))
					httpjson.Error(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	httpjson.Error(w, http.StatusUnauthorized, "could not validate credentials")
}

// extractBearer returns the Bearer token from the Authorization header,
// or "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
