// Package service implements registration, profile updates, and the admin
// user listing over the user repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"contacthub/backend/internal/audit"
	"contacthub/backend/internal/security"
	"contacthub/backend/internal/user/domain"
	userrepo "contacthub/backend/internal/user/repository"
)

// Sentinel errors for the user service; handlers map them to HTTP statuses.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

// ValidationError reports a rejected input value. Handlers surface its
// message verbatim with a 400 status.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// Service implements user registration and maintenance.
type Service struct {
	repo     userrepo.Repository
	hasher   *security.Hasher
	auditLog audit.AuditLogger
}

// NewService returns a Service with the given dependencies.
func NewService(repo userrepo.Repository, hasher *security.Hasher, auditLog audit.AuditLogger) *Service {
	return &Service{repo: repo, hasher: hasher, auditLog: auditLog}
}

// Register creates an active, non-superuser account with the given email and
// password. The password is hashed before anything is persisted; the
// plaintext never leaves this call.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hashed,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.auditLog.LogEvent(ctx, user.ID, audit.ActionRegister, "user", "")
	return user, nil
}

// UpdateParams carries an optional new value per updatable field. Nil means
// "leave unchanged".
type UpdateParams struct {
	Email    *string
	FullName *string
	Password *string
}

// Update applies the params to the user and persists the result. A password
// change is re-hashed; an email change is validated and checked for
// uniqueness. Returns the updated user.
func (s *Service) Update(ctx context.Context, user *domain.User, p UpdateParams) (*domain.User, error) {
	updated := *user
	if p.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*p.Email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			existing, err := s.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("look up user: %w", err)
			}
			if existing != nil {
				return nil, ErrEmailAlreadyRegistered
			}
		}
		updated.Email = email
	}
	if p.FullName != nil {
		updated.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.Password != nil {
		if err := validatePassword(*p.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash([]byte(*p.Password))
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.PasswordHash = hashed
	}
	updated.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.auditLog.LogEvent(ctx, updated.ID, audit.ActionUserUpdate, "user", "")
	return &updated, nil
}

// ListParams filters and pages the user listing.
type ListParams struct {
	Email    string
	FullName string
	Active   *bool
	Skip     int
	Limit    int
}

// List returns the filtered page of users and the total match count. Skip is
// clamped to zero and Limit to [1, 100]; zero Limit means the default 100.
func (s *Service) List(ctx context.Context, p ListParams) ([]*domain.User, int, error) {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultListLimit
	}
	if p.Limit > maxListLimit {
		p.Limit = maxListLimit
	}
	users, total, err := s.repo.List(ctx, userrepo.ListFilter{
		Email:    p.Email,
		FullName: p.FullName,
		Active:   p.Active,
		Offset:   p.Skip,
		Limit:    p.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{msg: "email is required"}
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return &ValidationError{msg: "invalid email format"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return &ValidationError{msg: "password must be at least 8 characters"}
	}
	if len(password) > 100 {
		return &ValidationError{msg: "password must be at most 100 characters"}
	}
	return nil
}
