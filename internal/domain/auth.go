// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
)

// ErrDuplicateUsername is returned by a UserRepository when the username is
// already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// Role is the privilege level of a user. Roles are strictly ordered:
// RoleUser < RoleAdmin < RoleOwner.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// AtLeast reports whether r grants at least the privileges of floor.
func (r Role) AtLeast(floor Role) bool {
	return r.Valid() && r.rank() >= floor.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleOwner:
		return 3
	default:
		return 0
	}
}

// User represents an account in the system.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
}

// UserRepository defines the port for user persistence operations.
//
// Lookups return (nil, nil) when no user matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u User) (*User, error)
	List(ctx context.Context) ([]User, error)
	CountByRole(ctx context.Context, role Role) (int, error)
	// PromoteToAdmin changes the role of a RoleUser account to RoleAdmin and
	// returns the updated record. Accounts with any other role are left
	// untouched and returned as stored; (nil, nil) means no such id.
	PromoteToAdmin(ctx context.Context, id string) (*User, error)
	// DeleteNonOwner removes the account unless it is an owner. Deleting a
	// missing id is not an error.
	DeleteNonOwner(ctx context.Context, id string) error
}
