package domain

// Action is an operation subject to the role policy.
type Action string

const (
	ActionViewResource   Action = "resource:view"
	ActionCreateResource Action = "resource:create"
	ActionEditResource   Action = "resource:edit"
	ActionDeleteResource Action = "resource:delete"
	ActionListUsers      Action = "users:list"
	ActionDeleteUser     Action = "users:delete"
	ActionPromoteUser    Action = "users:promote"
)

// minimumRole maps every action to the lowest role allowed to perform it.
var minimumRole = map[Action]Role{
	ActionViewResource:   RoleUser,
	ActionCreateResource: RoleAdmin,
	ActionEditResource:   RoleAdmin,
	ActionDeleteResource: RoleAdmin,
	ActionListUsers:      RoleOwner,
	ActionDeleteUser:     RoleOwner,
	ActionPromoteUser:    RoleOwner,
}

// Can reports whether id may perform action. Anonymous callers and unknown
// actions are always denied.
func Can(id Identity, action Action) bool {
	who, ok := AsAuthenticated(id)
	if !ok {
		return false
	}
	floor, known := minimumRole[action]
	if !known {
		return false
	}
	return who.Role.AtLeast(floor)
}

// CanManageUser reports whether id may delete or change the role of target.
// Owner accounts are never manageable through the interface.
func CanManageUser(id Identity, target *User) bool {
	if target == nil || target.Role == RoleOwner {
		return false
	}
	return Can(id, ActionDeleteUser)
}
