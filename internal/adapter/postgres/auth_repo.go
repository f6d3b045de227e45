package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"inventory/internal/domain"
)

const userColumns = "id, username, password_hash, role"

// uniqueViolation is the SQLSTATE reported for unique index conflicts.
const uniqueViolation = "23505"

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1",
		username,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// Create creates a new user. A taken username yields domain.ErrDuplicateUsername.
func (d *DB) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	out, err := scanUser(d.sql.QueryRowContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4) RETURNING "+userColumns,
		u.ID, u.Username, u.PasswordHash, string(u.Role),
	))
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, domain.ErrDuplicateUsername
	}
	return out, err
}

// List returns every user ordered by username.
func (d *DB) List(ctx context.Context) ([]domain.User, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// CountByRole returns the number of users holding role.
func (d *DB) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var count int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role = $1", string(role)).Scan(&count)
	return count, err
}

// PromoteToAdmin raises a user-role account to admin in a single statement;
// accounts with other roles are returned unchanged.
func (d *DB) PromoteToAdmin(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(d.sql.QueryRowContext(ctx,
		"UPDATE users SET role = $2 WHERE id = $1 AND role = $3 RETURNING "+userColumns,
		id, string(domain.RoleAdmin), string(domain.RoleUser),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return d.GetByID(ctx, id)
	}
	return u, err
}

// DeleteNonOwner removes a user unless it holds the owner role.
func (d *DB) DeleteNonOwner(ctx context.Context, id string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM users WHERE id = $1 AND role <> $2", id, string(domain.RoleOwner))
	return err
}
