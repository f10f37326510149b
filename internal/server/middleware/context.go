package middleware

import (
	"context"

	"contacthub/backend/internal/user/domain"
)

type contextKey struct{ name string }

var (
	userKey     = contextKey{"user"}
	clientIPKey = contextKey{"client_ip"}
)

// WithUser returns a context carrying the authenticated user.
// Handlers read it back via GetUser.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// GetUser returns the authenticated user from context and true if set; otherwise nil, false.
func GetUser(ctx context.Context) (*domain.User, bool) {
	v, ok := ctx.Value(userKey).(*domain.User)
	return v, ok
}

// WithClientIP returns a context carrying the remote client address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the remote client address from context, or "" if unset.
func GetClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
