// Package role implements the role registry and the role resolver used by
// every authorization decision in the service.
//
// The set of roles is closed: Admin and User. What is configurable is the
// integer value each role is persisted with. A Registry is built once at
// startup and shared read-only afterwards, so it is safe for concurrent use
// without locking.
package role

import "strings"

// Role identifies one member of the closed role set.
type Role uint8

const (
	// Admin may manage other principals.
	Admin Role = iota + 1
	// User is the default role assigned at registration.
	User
)

// All lists every known role in declaration order.
var All = []Role{Admin, User}

const (
	// NameAdmin is the canonical name of the Admin role.
	NameAdmin = "admin"
	// NameUser is the canonical name of the User role.
	NameUser = "user"

	// UnknownLabel is rendered for stored values the registry can't resolve.
	UnknownLabel = "Unknown"
)

// Name returns the canonical lowercase name of the role.
func (r Role) Name() string {
	switch r {
	case Admin:
		return NameAdmin
	case User:
		return NameUser
	default:
		return ""
	}
}

// Label returns the human-readable label of the role.
func (r Role) Label() string {
	switch r {
	case Admin:
		return "Administrator"
	case User:
		return "User"
	default:
		return UnknownLabel
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	if n := r.Name(); n != "" {
		return n
	}

	return UnknownLabel
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	return r == Admin || r == User
}

// Parse maps a canonical name to its role, ignoring case and surrounding
// whitespace.
func Parse(name string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameAdmin:
		return Admin, true
	case NameUser:
		return User, true
	default:
		return 0, false
	}
}
