// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sync"

	"inventory/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu        sync.Mutex
	users     []*domain.User
	resources map[string][]domain.Resource // keyed by kind table
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		resources: make(map[string][]domain.Resource),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.ResourceRepository = (*DB)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create stores a new user. Usernames are unique.
func (db *DB) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Username == u.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}

	stored := u
	db.users = append(db.users, &stored)
	return &u, nil
}

// List returns every user.
func (db *DB) List(ctx context.Context) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.User, 0, len(db.users))
	for _, u := range db.users {
		out = append(out, *u)
	}
	return out, nil
}

// CountByRole returns the number of users holding role.
func (db *DB) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for _, u := range db.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// PromoteToAdmin raises a user-role account to admin.
func (db *DB) PromoteToAdmin(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			if u.Role == domain.RoleUser {
				u.Role = domain.RoleAdmin
			}
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// DeleteNonOwner removes a user unless it is an owner.
func (db *DB) DeleteNonOwner(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, u := range db.users {
		if u.ID == id && u.Role != domain.RoleOwner {
			db.users = append(db.users[:i], db.users[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- ResourceRepository ---

// ListResources returns every row of kind.
func (db *DB) ListResources(ctx context.Context, kind domain.Kind) ([]domain.Resource, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows := db.resources[kind.Table]
	out := make([]domain.Resource, 0, len(rows))
	for _, r := range rows {
		out = append(out, copyResource(r))
	}
	return out, nil
}

// CreateResource stores a new row of kind.
func (db *DB) CreateResource(ctx context.Context, kind domain.Kind, id string, f domain.Fields) (*domain.Resource, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r := toResource(kind, id, f)
	db.resources[kind.Table] = append(db.resources[kind.Table], r)
	out := copyResource(r)
	return &out, nil
}

// GetResource returns the row with id.
func (db *DB) GetResource(ctx context.Context, kind domain.Kind, id string) (*domain.Resource, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, r := range db.resources[kind.Table] {
		if r.ID == id {
			out := copyResource(r)
			return &out, nil
		}
	}
	return nil, nil
}

// UpdateResource replaces the row with id.
func (db *DB) UpdateResource(ctx context.Context, kind domain.Kind, id string, f domain.Fields) (*domain.Resource, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows := db.resources[kind.Table]
	for i := range rows {
		if rows[i].ID == id {
			rows[i] = toResource(kind, id, f)
			out := copyResource(rows[i])
			return &out, nil
		}
	}
	return nil, nil
}

// DeleteResource removes the row with id, if present.
func (db *DB) DeleteResource(ctx context.Context, kind domain.Kind, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows := db.resources[kind.Table]
	for i, r := range rows {
		if r.ID == id {
			db.resources[kind.Table] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func toResource(kind domain.Kind, id string, f domain.Fields) domain.Resource {
	attrs := make(map[string]any, len(kind.Columns))
	for _, c := range kind.Columns {
		attrs[c.Name] = f.Attrs[c.Name]
	}
	return domain.Resource{ID: id, Name: f.Name, Quantity: f.Quantity, Attrs: attrs}
}

func copyResource(r domain.Resource) domain.Resource {
	attrs := make(map[string]any, len(r.Attrs))
	for k, v := range r.Attrs {
		attrs[k] = v
	}
	r.Attrs = attrs
	return r
}
