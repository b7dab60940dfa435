// Package access holds the identity model and the permission evaluator.
// Both are pure: they decide over actor snapshots supplied by the caller
// and never touch the store, so every invocation is independent and safe
// to run concurrently.
package access

// Role is an ordered privilege tier. The zero value is an anonymous
// (unauthenticated) actor.
type Role int

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleModerator
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleAnonymous: "anonymous",
	RoleUser:      "user",
	RoleModerator: "moderator",
	RoleAdmin:     "admin",
}

var rolesByName = map[string]Role{
	"user":      RoleUser,
	"moderator": RoleModerator,
	"admin":     RoleAdmin,
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole maps a stored role string to its tier. Unknown strings fall
// back to the plain user tier rather than failing, matching how the store
// defaults the column.
func ParseRole(name string) Role {
	if r, ok := rolesByName[name]; ok {
		return r
	}
	return RoleUser
}

// ValidRole reports whether name is an assignable role string.
func ValidRole(name string) bool {
	_, ok := rolesByName[name]
	return ok
}
