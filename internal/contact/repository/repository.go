package repository

import (
	"context"

	"contacthub/backend/internal/contact/domain"
)

// ListFilter narrows and pages a contact listing for one owner.
type ListFilter struct {
	// Search matches first name, last name, email, or phone by
	// case-insensitive substring when non-empty.
	Search string
	// Offset and Limit page the result. Limit must be positive.
	Offset int
	Limit  int
}

// Repository defines persistence for contacts. Every operation is scoped to
// the owning user; a contact belonging to another user behaves as absent.
type Repository interface {
	// GetByID returns the contact for id owned by userID, or nil if not found.
	GetByID(ctx context.Context, userID, id string) (*domain.Contact, error)
	Create(ctx context.Context, c *domain.Contact) error
	Update(ctx context.Context, c *domain.Contact) error
	// Delete removes the contact for id owned by userID. Returns false if no row matched.
	Delete(ctx context.Context, userID, id string) (bool, error)
	// List returns the filtered page of the user's contacts and the total count of matches.
	List(ctx context.Context, userID string, f ListFilter) ([]*domain.Contact, int, error)
}
