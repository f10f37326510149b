package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"contacthub/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = "id, email, full_name, password_hash, is_active, is_superuser, created_at, updated_at"

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	name := sql.NullString{String: u.FullName, Valid: u.FullName != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, is_active, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, name, u.PasswordHash, u.Active, u.Superuser, u.CreatedAt, u.UpdatedAt)
	return err
}

// Update updates the existing user record in the database. No-op if the user does not exist.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	name := sql.NullString{String: u.FullName, Valid: u.FullName != ""}
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, full_name = $3, password_hash = $4, is_active = $5, is_superuser = $6, updated_at = $7
		WHERE id = $1`,
		u.ID, u.Email, name, u.PasswordHash, u.Active, u.Superuser, u.UpdatedAt)
	return err
}

// List returns the filtered page of users ordered by creation time, plus the total match count.
func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]*domain.User, int, error) {
	where := []string{}
	args := []interface{}{}
	if f.Email != "" {
		args = append(args, "%"+f.Email+"%")
		where = append(where, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if f.FullName != "" {
		args = append(args, "%"+f.FullName+"%")
		where = append(where, fmt.Sprintf("full_name ILIKE $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit)
	limitPos := len(args)
	args = append(args, f.Offset)
	offsetPos := len(args)
	query := fmt.Sprintf("SELECT %s FROM users%s ORDER BY created_at LIMIT $%d OFFSET $%d",
		userColumns, cond, limitPos, offsetPos)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row *sql.Row) (*domain.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func scanUserRow(s rowScanner) (*domain.User, error) {
	var u domain.User
	var name sql.NullString
	if err := s.Scan(&u.ID, &u.Email, &name, &u.PasswordHash, &u.Active, &u.Superuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		u.FullName = name.String
	}
	return &u, nil
}
