package domain

import (
	"errors"
	"time"
)

// Contact is an address book entry owned by exactly one user.
type Contact struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the contact for persistence. Returns an error describing the first validation failure.
func (c *Contact) Validate() error {
	if c.UserID == "" {
		return errors.New("user id is required")
	}
	if c.FirstName == "" {
		return errors.New("first name is required")
	}
	if c.LastName == "" {
		return errors.New("last name is required")
	}
	return nil
}
