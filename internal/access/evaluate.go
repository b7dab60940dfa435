package access

// Method classifies what a request wants to do with a resource.
type Method int

const (
	MethodRead Method = iota
	MethodCreate
	MethodUpdate
	MethodDelete
)

// Kind names a resource family the evaluator knows about.
type Kind int

const (
	KindCategory Kind = iota
	KindGenre
	KindTitle
	KindReview
	KindComment
	KindUser
)

// Decision is the outcome of an evaluation.
type Decision int

const (
	// Deny means the actor is known but lacks privilege. It is never used
	// to signal that a resource is missing; absence is reported by the
	// lookup layer as NotFound so 403 and 404 stay distinguishable.
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool { return d == Allow }

// Owned is implemented by resources that carry an author, so update and
// delete can be gated on ownership.
type Owned interface {
	OwnerID() string
}

// Evaluate decides whether actor may perform method on a resource of the
// given kind. For update/delete on reviews and comments the existing
// resource must be supplied so ownership can be checked; for every other
// rule it may be nil. First matching rule wins.
func Evaluate(actor Actor, method Method, kind Kind, resource Owned) Decision {
	switch kind {
	case KindCategory, KindGenre, KindTitle:
		// Reads on the catalog are public, writes are admin-only.
		if method == MethodRead {
			return Allow
		}
		return requireRole(actor, RoleAdmin)

	case KindReview, KindComment:
		switch method {
		case MethodRead:
			return Allow
		case MethodCreate:
			if actor.IsAuthenticated() {
				return Allow
			}
			return Deny
		default:
			// Author may touch their own resource; moderators and above
			// may touch anyone's.
			if resource != nil && actor.IsAuthenticated() && actor.ID == resource.OwnerID() {
				return Allow
			}
			return requireRole(actor, RoleModerator)
		}

	case KindUser:
		return requireRole(actor, RoleAdmin)
	}

	return Deny
}

// EvaluateSelf gates the self-service "me" path: any authenticated actor,
// scoped by the caller to the actor's own record.
func EvaluateSelf(actor Actor) Decision {
	if actor.IsAuthenticated() {
		return Allow
	}
	return Deny
}

func requireRole(actor Actor, r Role) Decision {
	if actor.RoleAtLeast(r) {
		return Allow
	}
	return Deny
}
