package app

import (
	"context"

	"inventory/internal/domain"
)

// UserService implements the owner's account management use cases.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a UserService backed by the given repository.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns every account.
func (s *UserService) List(ctx context.Context, who domain.Identity) ([]domain.User, error) {
	if !domain.Can(who, domain.ActionListUsers) {
		return nil, ErrForbidden
	}
	return s.users.List(ctx)
}

// Promote raises a user-role account to admin.
func (s *UserService) Promote(ctx context.Context, who domain.Identity, id string) (*domain.User, error) {
	if !domain.Can(who, domain.ActionPromoteUser) {
		return nil, ErrForbidden
	}
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}
	if !domain.CanManageUser(who, target) {
		return nil, ErrForbidden
	}
	// The store only changes rows still holding the user role, so a racing
	// change to the target is never overwritten.
	u, err := s.users.PromoteToAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// Delete removes a non-owner account. Deleting a missing account is not an
// error.
func (s *UserService) Delete(ctx context.Context, who domain.Identity, id string) error {
	if !domain.Can(who, domain.ActionDeleteUser) {
		return ErrForbidden
	}
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if !domain.CanManageUser(who, target) {
		return ErrForbidden
	}
	return s.users.DeleteNonOwner(ctx, id)
}
