package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contacthub/backend/internal/contact/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a contact repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const contactColumns = "id, user_id, first_name, last_name, email, phone, created_at, updated_at"

// GetByID returns the contact for id owned by userID, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id = $1 AND user_id = $2", id, userID)
	c, err := scanContactRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Create persists the contact to the database. The contact must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Contact) error {
	email := sql.NullString{String: c.Email, Valid: c.Email != ""}
	phone := sql.NullString{String: c.Phone, Valid: c.Phone != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, first_name, last_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.UserID, c.FirstName, c.LastName, email, phone, c.CreatedAt, c.UpdatedAt)
	return err
}

// Update updates the existing contact record, keyed by id and owner. No-op if no row matches.
func (r *PostgresRepository) Update(ctx context.Context, c *domain.Contact) error {
	email := sql.NullString{String: c.Email, Valid: c.Email != ""}
	phone := sql.NullString{String: c.Phone, Valid: c.Phone != ""}
	_, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`,
		c.ID, c.UserID, c.FirstName, c.LastName, email, phone, c.UpdatedAt)
	return err
}

// Delete removes the contact for id owned by userID. Returns false if no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM contacts WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the filtered page of the user's contacts ordered by creation time, plus the total match count.
func (r *PostgresRepository) List(ctx context.Context, userID string, f ListFilter) ([]*domain.Contact, int, error) {
	cond := " WHERE user_id = $1"
	args := []interface{}{userID}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		cond += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)",
			len(args), len(args), len(args), len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit)
	limitPos := len(args)
	args = append(args, f.Offset)
	offsetPos := len(args)
	query := fmt.Sprintf("SELECT %s FROM contacts%s ORDER BY created_at LIMIT $%d OFFSET $%d",
		contactColumns, cond, limitPos, offsetPos)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Contact
	for rows.Next() {
		c, err := scanContactRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContactRow(s rowScanner) (*domain.Contact, error) {
	var c domain.Contact
	var email, phone sql.NullString
	if err := s.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &email, &phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = email.String
	}
	if phone.Valid {
		c.Phone = phone.String
	}
	return &c, nil
}
