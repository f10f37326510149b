// Package service implements credential authentication and bearer-token
// authorization over the user store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contacthub/backend/internal/audit"
	"contacthub/backend/internal/security"
	userdomain "contacthub/backend/internal/user/domain"
)

// Sentinel errors for the auth service; handlers map them to HTTP statuses.
// Any other error is an infrastructure failure and maps to a 5xx.
var (
	// ErrInvalidCredentials covers unknown identity and wrong password alike,
	// so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled is distinguished internally for auditing; the HTTP
	// boundary reports it as ErrInvalidCredentials.
	ErrAccountDisabled       = errors.New("account disabled")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
}

// AuthService turns credentials into signed access tokens and access tokens
// back into resolved users. It holds no mutable state; every call is an
// independent read against the user store.
type AuthService struct {
	userRepo UserRepo
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	auditLog audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(userRepo UserRepo, hasher *security.Hasher, tokens *security.TokenProvider, auditLog audit.AuditLogger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		auditLog: auditLog,
	}
}

// Authenticate verifies email/password and issues an access token on success.
// Unknown email, wrong password, and disabled account all surface to the
// client as the same failure; the unknown-email path still burns a bcrypt
// comparison so its timing matches the wrong-password path.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (token string, expiresAt time.Time, err error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("look up user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		s.hasher.CompareDummy([]byte(password))
		s.auditLog.LogEvent(ctx, "", audit.ActionLoginFailure, "user", "invalid_credentials")
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.auditLog.LogEvent(ctx, user.ID, audit.ActionLoginFailure, "user", "invalid_credentials")
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !user.Active {
		s.auditLog.LogEvent(ctx, user.ID, audit.ActionLoginFailure, "user", "account_disabled")
		return "", time.Time{}, ErrAccountDisabled
	}
	token, expiresAt, err = s.tokens.IssueAccess(user.ID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	s.auditLog.LogEvent(ctx, user.ID, audit.ActionLogin, "user", "")
	return token, expiresAt, nil
}

// Authorize validates the access token, resolves its subject, and enforces
// the required privilege. A deleted or deactivated subject is reported the
// same as a bad token. ErrInsufficientPrivilege means the token is valid but
// the account lacks the elevated flag; callers map it to 403 rather than 401.
func (s *AuthService) Authorize(ctx context.Context, token string, priv userdomain.Privilege) (*userdomain.User, error) {
	userID, err := s.tokens.ValidateAccess(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidToken
	}
	if priv == userdomain.PrivilegeElevated && !user.Superuser {
		return nil, ErrInsufficientPrivilege
	}
	return user, nil
}
