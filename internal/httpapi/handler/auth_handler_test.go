package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/access"
	"reviewhub/internal/apperr"
	"reviewhub/internal/httpapi/models"
)

type stubAuthService struct {
	signUpErr error
	tokenErr  error
	token     string
}

func (s *stubAuthService) SignUp(ctx context.Context, username, email string) (*models.User, error) {
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	return &models.User{Username: username, Email: email}, nil
}

func (s *stubAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return s.token, nil
}

func (s *stubAuthService) ValidateToken(tokenString string) (access.Actor, error) {
	return access.Anonymous, nil
}

func newAuthRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuthHandler(svc).RegisterRoutes(r.Group("/api/v1/auth"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignUpEndpoint_EchoesPair(t *testing.T) {
	r := newAuthRouter(&stubAuthService{})

	w := postJSON(t, r, "/api/v1/auth/signup", `{"username":"alice","email":"alice@example.com"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, "alice@example.com", resp["email"])
}

func TestSignUpEndpoint_ValidationErrorsAs400(t *testing.T) {
	verr := &apperr.ValidationError{}
	verr.Add("username", "username may contain only letters, digits, underscore and hyphen")
	r := newAuthRouter(&stubAuthService{signUpErr: verr})

	w := postJSON(t, r, "/api/v1/auth/signup", `{"username":"no spaces","email":"a@b.com"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username")
}

func TestTokenEndpoint_UnknownUsernameIs404(t *testing.T) {
	r := newAuthRouter(&stubAuthService{
		tokenErr: &apperr.NotFoundField{Field: "username", Message: "user not found"},
	})

	w := postJSON(t, r, "/api/v1/auth/token", `{"username":"ghost","confirm_code":"whatever"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenEndpoint_ReturnsAccessToken(t *testing.T) {
	r := newAuthRouter(&stubAuthService{token: "jwt-goes-here"})

	w := postJSON(t, r, "/api/v1/auth/token", `{"username":"alice","confirm_code":"abc"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jwt-goes-here", resp["access"])
}

func TestSignUpEndpoint_MalformedBodyIs400(t *testing.T) {
	r := newAuthRouter(&stubAuthService{})

	w := postJSON(t, r, "/api/v1/auth/signup", `{"username":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
