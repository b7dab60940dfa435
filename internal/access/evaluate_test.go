package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ownedBy string

func (o ownedBy) OwnerID() string { return string(o) }

func TestRoleOrder(t *testing.T) {
	assert.True(t, RoleUser < RoleModerator)
	assert.True(t, RoleModerator < RoleAdmin)

	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleModerator, ParseRole("moderator"))
	assert.Equal(t, RoleUser, ParseRole("user"))
	// unknown strings degrade to plain user, matching the store default
	assert.Equal(t, RoleUser, ParseRole("something-else"))
}

func TestRoleAtLeast(t *testing.T) {
	moderator := Actor{ID: "m", Role: RoleModerator}
	assert.True(t, moderator.RoleAtLeast(RoleUser))
	assert.True(t, moderator.RoleAtLeast(RoleModerator))
	assert.False(t, moderator.RoleAtLeast(RoleAdmin))

	// superuser dominates every tier check
	super := Actor{ID: "s", Role: RoleUser, Superuser: true}
	assert.True(t, super.RoleAtLeast(RoleAdmin))
}

func TestEvaluate_CatalogReadIsPublic(t *testing.T) {
	for _, kind := range []Kind{KindCategory, KindGenre, KindTitle} {
		assert.True(t, Evaluate(Anonymous, MethodRead, kind, nil).Allowed())
	}
}

func TestEvaluate_CatalogWriteIsAdminOnly(t *testing.T) {
	user := Actor{ID: "u", Role: RoleUser}
	moderator := Actor{ID: "m", Role: RoleModerator}
	admin := Actor{ID: "a", Role: RoleAdmin}
	super := Actor{ID: "s", Role: RoleUser, Superuser: true}

	for _, kind := range []Kind{KindCategory, KindGenre, KindTitle} {
		for _, method := range []Method{MethodCreate, MethodUpdate, MethodDelete} {
			assert.False(t, Evaluate(Anonymous, method, kind, nil).Allowed())
			assert.False(t, Evaluate(user, method, kind, nil).Allowed())
			assert.False(t, Evaluate(moderator, method, kind, nil).Allowed())
			assert.True(t, Evaluate(admin, method, kind, nil).Allowed())
			assert.True(t, Evaluate(super, method, kind, nil).Allowed())
		}
	}
}

func TestEvaluate_ReviewCreateNeedsAuthentication(t *testing.T) {
	assert.False(t, Evaluate(Anonymous, MethodCreate, KindReview, nil).Allowed())
	assert.True(t, Evaluate(Actor{ID: "u", Role: RoleUser}, MethodCreate, KindReview, nil).Allowed())
	assert.True(t, Evaluate(Anonymous, MethodRead, KindReview, nil).Allowed())
}

func TestEvaluate_ReviewUpdateByAuthorOrModerator(t *testing.T) {
	resource := ownedBy("author-1")

	author := Actor{ID: "author-1", Role: RoleUser}
	stranger := Actor{ID: "someone-else", Role: RoleUser}
	moderator := Actor{ID: "mod", Role: RoleModerator}

	for _, method := range []Method{MethodUpdate, MethodDelete} {
		assert.True(t, Evaluate(author, method, KindReview, resource).Allowed())
		assert.False(t, Evaluate(stranger, method, KindReview, resource).Allowed())
		assert.True(t, Evaluate(moderator, method, KindReview, resource).Allowed())
		assert.False(t, Evaluate(Anonymous, method, KindReview, resource).Allowed())
	}
}

func TestEvaluate_CommentMirrorsReviewRules(t *testing.T) {
	resource := ownedBy("author-1")
	stranger := Actor{ID: "someone-else", Role: RoleUser}

	assert.True(t, Evaluate(Anonymous, MethodRead, KindComment, nil).Allowed())
	assert.False(t, Evaluate(stranger, MethodDelete, KindComment, resource).Allowed())
	assert.True(t, Evaluate(Actor{ID: "author-1", Role: RoleUser}, MethodDelete, KindComment, resource).Allowed())
}

func TestEvaluate_UserManagementIsAdminOnly(t *testing.T) {
	user := Actor{ID: "u", Role: RoleUser}
	admin := Actor{ID: "a", Role: RoleAdmin}

	assert.False(t, Evaluate(user, MethodRead, KindUser, nil).Allowed())
	assert.False(t, Evaluate(user, MethodCreate, KindUser, nil).Allowed())
	assert.True(t, Evaluate(admin, MethodRead, KindUser, nil).Allowed())
	assert.True(t, Evaluate(admin, MethodDelete, KindUser, nil).Allowed())
}

func TestEvaluateSelf(t *testing.T) {
	assert.True(t, EvaluateSelf(Actor{ID: "u", Role: RoleUser}).Allowed())
	assert.False(t, EvaluateSelf(Anonymous).Allowed())
}

func TestEvaluate_Idempotent(t *testing.T) {
	actor := Actor{ID: "u", Role: RoleUser}
	resource := ownedBy("other")
	first := Evaluate(actor, MethodUpdate, KindReview, resource)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Evaluate(actor, MethodUpdate, KindReview, resource))
	}
}
