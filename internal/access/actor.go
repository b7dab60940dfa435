package access

// Actor is a snapshot of the requesting identity, resolved by the JWT
// middleware (or Anonymous for requests without credentials). The
// evaluator never looks the actor up again; what the snapshot says is
// what gets decided on.
type Actor struct {
	ID        string
	Username  string
	Role      Role
	Superuser bool
}

// Anonymous is the actor used for requests carrying no credentials.
var Anonymous = Actor{Role: RoleAnonymous}

// IsAuthenticated reports whether the actor signed in at all.
func (a Actor) IsAuthenticated() bool {
	return a.Role > RoleAnonymous
}

// RoleAtLeast reports whether the actor sits at or above the given tier.
// The superuser flag dominates every tier check.
func (a Actor) RoleAtLeast(r Role) bool {
	return a.Superuser || a.Role >= r
}
