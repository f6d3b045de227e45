package domain

// Identity is the resolved caller of a request. It is either Anonymous or
// Authenticated; use a type switch to tell them apart.
type Identity interface {
	isIdentity()
}

// Anonymous is the identity of a caller without a valid session.
type Anonymous struct{}

// Authenticated is the identity of a caller holding a valid session for an
// existing user.
type Authenticated struct {
	UserID   string
	Username string
	Role     Role
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

// IdentityOf returns the Authenticated identity for u.
func IdentityOf(u *User) Authenticated {
	return Authenticated{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// AsAuthenticated returns the authenticated identity and true, or false for
// anonymous callers.
func AsAuthenticated(id Identity) (Authenticated, bool) {
	switch v := id.(type) {
	case Authenticated:
		return v, true
	case *Authenticated:
		if v == nil {
			return Authenticated{}, false
		}
		return *v, true
	default:
		return Authenticated{}, false
	}
}
