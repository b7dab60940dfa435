package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewhub/internal/access"
	"reviewhub/internal/apperr"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
)

func strptr(s string) *string { return &s }

var adminActor = access.Actor{ID: "admin-1", Username: "root", Role: access.RoleAdmin}

func TestUserList_NonAdminDenied(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	_, _, err := svc.List(context.Background(), authorActor, "", 1, 20)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	_, _, err = svc.List(context.Background(), moderatorActor, "", 1, 20)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestUserList_SuperuserBypassesRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("List", mock.Anything, "", 1, 20).Return([]models.User{{Username: "alice"}}, int64(1), nil)

	super := access.Actor{ID: "su-1", Username: "boss", Role: access.RoleUser, Superuser: true}
	users, total, err := svc.List(context.Background(), super, "", 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)
}

func TestUserCreate_InvalidRoleRejected(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	_, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Role:     "overlord",
	})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Fields[0].Field)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserCreate_DuplicateConflict(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Create(context.Background(), adminActor, dto.CreateUserRequest{
		Username: "taken",
		Email:    "taken@example.com",
	})

	var cerr *apperr.ConflictError
	assert.ErrorAs(t, err, &cerr)
}

func TestUserUpdate_AdminChangesRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	existing := &models.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: "user"}
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(existing, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Update(context.Background(), adminActor, "alice", dto.UpdateUserRequest{
		Role: strptr("moderator"),
	})

	require.NoError(t, err)
	assert.Equal(t, "moderator", user.Role)
}

func TestUpdateMe_IgnoresIdentityFields(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	existing := &models.User{ID: "author-1", Username: "alice", Email: "alice@example.com", Role: "user"}
	userRepo.On("FindByID", mock.Anything, "author-1").Return(existing, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.UpdateMe(context.Background(), authorActor, dto.UpdateUserRequest{
		Username: strptr("hacker"),
		Email:    strptr("evil@example.com"),
		Role:     strptr("admin"),
		Bio:      strptr("just a reader"),
	})

	require.NoError(t, err)
	// profile fields go through, identity and role stay put
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "just a reader", user.Bio)
	userRepo.AssertExpectations(t)
}

func TestMe_AnonymousUnauthenticated(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	_, err := svc.Me(context.Background(), access.Anonymous)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestUserDelete_Admin(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("DeleteByUsername", mock.Anything, "alice").Return(nil)
	require.NoError(t, svc.Delete(context.Background(), adminActor, "alice"))

	userRepo2 := new(MockUserRepository)
	svc2 := NewUserService(userRepo2)
	userRepo2.On("DeleteByUsername", mock.Anything, "ghost").Return(gorm.ErrRecordNotFound)
	assert.ErrorIs(t, svc2.Delete(context.Background(), adminActor, "ghost"), apperr.ErrNotFound)
}
