package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"inventory/internal/domain"
)

func TestRoleOrdering(t *testing.T) {
	require.True(t, domain.RoleOwner.AtLeast(domain.RoleAdmin))
	require.True(t, domain.RoleAdmin.AtLeast(domain.RoleUser))
	require.True(t, domain.RoleUser.AtLeast(domain.RoleUser))
	require.False(t, domain.RoleUser.AtLeast(domain.RoleAdmin))
	require.False(t, domain.RoleAdmin.AtLeast(domain.RoleOwner))
	require.False(t, domain.Role("root").AtLeast(domain.RoleUser))
}

func TestCan(t *testing.T) {
	user := domain.Authenticated{UserID: "u", Role: domain.RoleUser}
	admin := domain.Authenticated{UserID: "a", Role: domain.RoleAdmin}
	owner := domain.Authenticated{UserID: "o", Role: domain.RoleOwner}

	tests := []struct {
		action domain.Action
		anon   bool
		user   bool
		admin  bool
		owner  bool
	}{
		{domain.ActionViewResource, false, true, true, true},
		{domain.ActionCreateResource, false, false, true, true},
		{domain.ActionEditResource, false, false, true, true},
		{domain.ActionDeleteResource, false, false, true, true},
		{domain.ActionListUsers, false, false, false, true},
		{domain.ActionDeleteUser, false, false, false, true},
		{domain.ActionPromoteUser, false, false, false, true},
		{domain.Action("bogus"), false, false, false, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.action), func(t *testing.T) {
			require.Equal(t, tc.anon, domain.Can(domain.Anonymous{}, tc.action), "anonymous")
			require.Equal(t, tc.user, domain.Can(user, tc.action), "user")
			require.Equal(t, tc.admin, domain.Can(admin, tc.action), "admin")
			require.Equal(t, tc.owner, domain.Can(owner, tc.action), "owner")
		})
	}
}

func TestCanManageUser(t *testing.T) {
	owner := domain.Authenticated{UserID: "o", Role: domain.RoleOwner}
	admin := domain.Authenticated{UserID: "a", Role: domain.RoleAdmin}

	require.True(t, domain.CanManageUser(owner, &domain.User{ID: "x", Role: domain.RoleUser}))
	require.True(t, domain.CanManageUser(owner, &domain.User{ID: "x", Role: domain.RoleAdmin}))
	require.False(t, domain.CanManageUser(owner, &domain.User{ID: "y", Role: domain.RoleOwner}))
	require.False(t, domain.CanManageUser(admin, &domain.User{ID: "x", Role: domain.RoleUser}))
	require.False(t, domain.CanManageUser(owner, nil))
}

func TestAsAuthenticated(t *testing.T) {
	_, ok := domain.AsAuthenticated(domain.Anonymous{})
	require.False(t, ok)

	_, ok = domain.AsAuthenticated(nil)
	require.False(t, ok)

	who, ok := domain.AsAuthenticated(domain.IdentityOf(&domain.User{ID: "1", Username: "alice", Role: domain.RoleAdmin}))
	require.True(t, ok)
	require.Equal(t, "alice", who.Username)
	require.Equal(t, domain.RoleAdmin, who.Role)
}
