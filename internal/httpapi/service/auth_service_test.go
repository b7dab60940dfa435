package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewhub/internal/apperr"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/validate"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) DeleteByUsername(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsernameAndCode(ctx context.Context, username, code string) (bool, error) {
	args := m.Called(ctx, username, code)
	return args.Bool(0), args.Error(1)
}

// MockReviewLookup satisfies validate.ReviewLookup for tests that never
// touch reviews.
type MockReviewLookup struct {
	mock.Mock
}

func (m *MockReviewLookup) ExistsByTitleAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	args := m.Called(ctx, titleID, authorID)
	return args.Bool(0), args.Error(1)
}

// recordingSender captures sent mail.
type recordingSender struct {
	to      []string
	failing bool
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.to = append(s.to, to)
	if s.failing {
		return assert.AnError
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret-that-is-long-enough-00",
		AccessTokenTTL: time.Hour,
	}
}

func newAuthService(userRepo *MockUserRepository, sender *recordingSender) AuthService {
	validator := validate.New(userRepo, new(MockReviewLookup))
	return NewAuthService(userRepo, validator, sender, slog.Default(), testConfig())
}

func TestSignUp_CreatesUserAndSendsCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	sender := &recordingSender{}
	svc := newAuthService(userRepo, sender)

	userRepo.On("FindByUsernameAndEmail", mock.Anything, "alice", "alice@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.SignUp(context.Background(), "alice", "alice@example.com")

	require.NoError(t, err)
	require.NotNil(t, user.ConfirmCode)
	assert.NotEmpty(t, *user.ConfirmCode)
	assert.Equal(t, []string{"alice@example.com"}, sender.to)
	userRepo.AssertExpectations(t)
}

func TestSignUp_RepeatRotatesCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	sender := &recordingSender{}
	svc := newAuthService(userRepo, sender)

	oldCode := "old-code"
	existing := &models.User{ID: "id-1", Username: "alice", Email: "alice@example.com", ConfirmCode: &oldCode}
	userRepo.On("FindByUsernameAndEmail", mock.Anything, "alice", "alice@example.com").
		Return(existing, nil)
	userRepo.On("Save", mock.Anything, existing).Return(nil)

	user, err := svc.SignUp(context.Background(), "alice", "alice@example.com")

	require.NoError(t, err)
	assert.NotEqual(t, "old-code", *user.ConfirmCode)
	userRepo.AssertExpectations(t)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_ConflictOnForeignUniqueFields(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, &recordingSender{})

	userRepo.On("FindByUsernameAndEmail", mock.Anything, "alice", "taken@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(gorm.ErrDuplicatedKey)

	_, err := svc.SignUp(context.Background(), "alice", "taken@example.com")

	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
}

func TestSignUp_ReservedUsernameRejectedBeforeStore(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, &recordingSender{})

	_, err := svc.SignUp(context.Background(), "me_admin", "x@y.com")

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Fields[0].Field)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_MailFailureDoesNotRollBack(t *testing.T) {
	userRepo := new(MockUserRepository)
	sender := &recordingSender{failing: true}
	svc := newAuthService(userRepo, sender)

	userRepo.On("FindByUsernameAndEmail", mock.Anything, "alice", "alice@example.com").
		Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.SignUp(context.Background(), "alice", "alice@example.com")

	require.NoError(t, err)
	assert.NotNil(t, user.ConfirmCode)
}

func TestIssueToken_UnknownUsernameIsNotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, &recordingSender{})

	userRepo.On("ExistsByUsername", mock.Anything, "ghost").Return(false, nil)

	_, err := svc.IssueToken(context.Background(), "ghost", "some-code")

	var nf *apperr.NotFoundField
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "username", nf.Field)
}

func TestIssueToken_WrongCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, &recordingSender{})

	userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)
	userRepo.On("ExistsByUsernameAndCode", mock.Anything, "alice", "wrong").Return(false, nil)

	_, err := svc.IssueToken(context.Background(), "alice", "wrong")

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unregistered pair", verr.Fields[0].Message)
}

func TestIssueToken_SuccessAndReplay(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, &recordingSender{})

	code := "code-1"
	user := &models.User{ID: "id-1", Username: "alice", Role: "moderator", ConfirmCode: &code}
	userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)
	userRepo.On("ExistsByUsernameAndCode", mock.Anything, "alice", "code-1").Return(true, nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := svc.IssueToken(context.Background(), "alice", "code-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testConfig().JWTSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "id-1", claims["user_id"])
	assert.Equal(t, "moderator", claims["role"])

	// the code is not invalidated; the same pair keeps issuing tokens
	again, err := svc.IssueToken(context.Background(), "alice", "code-1")
	require.NoError(t, err)
	assert.NotEmpty(t, again)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, &recordingSender{})

	code := "code-1"
	user := &models.User{ID: "id-1", Username: "alice", Role: "admin", Superuser: true, ConfirmCode: &code}
	userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)
	userRepo.On("ExistsByUsernameAndCode", mock.Anything, "alice", "code-1").Return(true, nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := svc.IssueToken(context.Background(), "alice", "code-1")
	require.NoError(t, err)

	actor, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "id-1", actor.ID)
	assert.Equal(t, "alice", actor.Username)
	assert.True(t, actor.Superuser)
	assert.True(t, actor.IsAuthenticated())
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newAuthService(new(MockUserRepository), &recordingSender{})

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
