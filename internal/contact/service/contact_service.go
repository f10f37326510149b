package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"contacthub/backend/internal/audit"
	"contacthub/backend/internal/contact/domain"
	contactrepo "contacthub/backend/internal/contact/repository"
)

// ErrContactNotFound is returned when a contact does not exist or belongs
// to another user. The two cases are deliberately indistinguishable.
var ErrContactNotFound = errors.New("contact not found")

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

// Service implements owner-scoped contact management. Every operation
// takes the acting user's ID and only ever touches that user's rows.
type Service struct {
	repo     contactrepo.Repository
	auditLog audit.AuditLogger
}

func NewService(repo contactrepo.Repository, auditLog audit.AuditLogger) *Service {
	return &Service{repo: repo, auditLog: auditLog}
}

// CreateParams carries the caller-supplied fields for a new contact.
type CreateParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (s *Service) Create(ctx context.Context, userID string, p CreateParams) (*domain.Contact, error) {
	now := time.Now().UTC()
	c := &domain.Contact{
		ID:        uuid.New().String(),
		UserID:    userID,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Email:     strings.TrimSpace(strings.ToLower(p.Email)),
		Phone:     strings.TrimSpace(p.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, &ValidationError{msg: err.Error()}
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	s.auditLog.LogEvent(ctx, userID, audit.ActionContactCreate, "contact:"+c.ID, "")
	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Contact, error) {
	c, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("look up contact: %w", err)
	}
	if c == nil {
		return nil, ErrContactNotFound
	}
	return c, nil
}

// UpdateParams holds optional replacement fields; nil means keep current.
type UpdateParams struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

func (s *Service) Update(ctx context.Context, userID, id string, p UpdateParams) (*domain.Contact, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated := *c
	if p.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		updated.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		updated.Email = strings.TrimSpace(strings.ToLower(*p.Email))
	}
	if p.Phone != nil {
		updated.Phone = strings.TrimSpace(*p.Phone)
	}
	if err := updated.Validate(); err != nil {
		return nil, &ValidationError{msg: err.Error()}
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	s.auditLog.LogEvent(ctx, userID, audit.ActionContactUpdate, "contact:"+id, "")
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	matched, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if !matched {
		return ErrContactNotFound
	}
	s.auditLog.LogEvent(ctx, userID, audit.ActionContactDelete, "contact:"+id, "")
	return nil
}

// ListParams selects a page of the user's contacts. Search matches
// case-insensitively against first name, last name, email and phone.
type ListParams struct {
	Search string
	Skip   int
	Limit  int
}

func (s *Service) List(ctx context.Context, userID string, p ListParams) ([]*domain.Contact, int, error) {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultListLimit
	}
	if p.Limit > maxListLimit {
		p.Limit = maxListLimit
	}
	contacts, total, err := s.repo.List(ctx, userID, contactrepo.ListFilter{
		Search: strings.TrimSpace(p.Search),
		Offset: p.Skip,
		Limit:  p.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, total, nil
}
