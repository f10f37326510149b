package domain

import (
	"errors"
	"time"
)

// User is the core account entity.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string // bcrypt hash; never logged, never returned to clients
	Active       bool
	Superuser    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Privilege is the access level required by an operation.
type Privilege string

const (
	// PrivilegeOrdinary is any authenticated account.
	PrivilegeOrdinary Privilege = "ordinary"
	// PrivilegeElevated requires the account's superuser flag.
	PrivilegeElevated Privilege = "elevated"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
