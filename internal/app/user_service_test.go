package app_test

import (
	"context"
	"errors"
	"testing"

	"inventory/internal/app"
	"inventory/internal/domain"
)

type mockUserRepo struct {
	users     map[string]*domain.User
	promoted  []string
	deleted   []string
	listCalls int
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*domain.User)}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	m.users[u.ID] = &u
	return &u, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	m.listCalls++
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role domain.Role) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) PromoteToAdmin(_ context.Context, id string) (*domain.User, error) {
	m.promoted = append(m.promoted, id)
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if u.Role == domain.RoleUser {
		u.Role = domain.RoleAdmin
	}
	return u, nil
}

func (m *mockUserRepo) DeleteNonOwner(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	if u, ok := m.users[id]; ok && u.Role != domain.RoleOwner {
		delete(m.users, id)
	}
	return nil
}

func TestUserService_RequiresOwner(t *testing.T) {
	repo := newMockUserRepo(domain.User{ID: "bob", Username: "bob", Role: domain.RoleUser})
	svc := app.NewUserService(repo)
	ctx := context.Background()

	for _, who := range []domain.Identity{domain.Anonymous{}, asUser, asAdmin} {
		if _, err := svc.List(ctx, who); !errors.Is(err, app.ErrForbidden) {
			t.Errorf("list as %v: expected ErrForbidden, got %v", who, err)
		}
		if _, err := svc.Promote(ctx, who, "bob"); !errors.Is(err, app.ErrForbidden) {
			t.Errorf("promote as %v: expected ErrForbidden, got %v", who, err)
		}
		if err := svc.Delete(ctx, who, "bob"); !errors.Is(err, app.ErrForbidden) {
			t.Errorf("delete as %v: expected ErrForbidden, got %v", who, err)
		}
	}
	if repo.listCalls != 0 || len(repo.promoted) != 0 || len(repo.deleted) != 0 {
		t.Fatal("non-owner calls reached storage")
	}
}

func TestUserService_Promote(t *testing.T) {
	repo := newMockUserRepo(domain.User{ID: "bob", Username: "bob", Role: domain.RoleUser})
	svc := app.NewUserService(repo)

	u, err := svc.Promote(context.Background(), asOwner, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", u.Role)
	}
}

func TestUserService_Promote_Missing(t *testing.T) {
	svc := app.NewUserService(newMockUserRepo())
	_, err := svc.Promote(context.Background(), asOwner, "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_OwnerIsProtected(t *testing.T) {
	repo := newMockUserRepo(domain.User{ID: "root", Username: "root", Role: domain.RoleOwner})
	svc := app.NewUserService(repo)
	ctx := context.Background()

	if _, err := svc.Promote(ctx, asOwner, "root"); !errors.Is(err, app.ErrForbidden) {
		t.Errorf("promote owner: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, asOwner, "root"); !errors.Is(err, app.ErrForbidden) {
		t.Errorf("delete owner: expected ErrForbidden, got %v", err)
	}
	if _, ok := repo.users["root"]; !ok {
		t.Fatal("owner account was removed")
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newMockUserRepo(domain.User{ID: "bob", Username: "bob", Role: domain.RoleAdmin})
	svc := app.NewUserService(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, asOwner, "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, asOwner, "bob"); err != nil {
		t.Fatalf("second delete: unexpected error: %v", err)
	}
	if _, ok := repo.users["bob"]; ok {
		t.Fatal("expected bob to be deleted")
	}
}
