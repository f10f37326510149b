package repository

import (
	"context"

	"contacthub/backend/internal/user/domain"
)

// ListFilter narrows and pages a user listing. Zero values mean "no filter".
type ListFilter struct {
	// Email filters by case-insensitive substring match.
	Email string
	// FullName filters by case-insensitive substring match.
	FullName string
	// Active filters by the active flag when non-nil.
	Active *bool
	// Offset and Limit page the result. Limit must be positive.
	Offset int
	Limit  int
}

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// List returns the filtered page of users and the total count of matches.
	List(ctx context.Context, f ListFilter) ([]*domain.User, int, error)
}
