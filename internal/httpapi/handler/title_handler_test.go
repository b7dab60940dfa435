package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/access"
	"reviewhub/internal/apperr"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/repository"
)

type stubTitleService struct {
	created *dto.TitleRequest
}

func (s *stubTitleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]dto.TitleResponse, int64, error) {
	return nil, 0, nil
}

func (s *stubTitleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	return nil, apperr.ErrNotFound
}

func (s *stubTitleService) Create(ctx context.Context, actor access.Actor, req dto.TitleRequest) (*dto.TitleResponse, error) {
	s.created = &req
	return &dto.TitleResponse{ID: 1, Name: req.Name, Year: req.Year}, nil
}

func (s *stubTitleService) Update(ctx context.Context, actor access.Actor, id int64, req dto.TitleRequest) (*dto.TitleResponse, error) {
	return nil, apperr.ErrNotFound
}

func (s *stubTitleService) Delete(ctx context.Context, actor access.Actor, id int64) error {
	return apperr.ErrNotFound
}

func newTitleRouter(svc *stubTitleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewTitleHandler(svc).RegisterRoutes(r.Group("/api/v1/titles"))
	return r
}

// Year has no lower bound; zero and negative years bind fine and are the
// validator's business, not the request binding's.
func TestTitleCreate_ZeroYearBinds(t *testing.T) {
	svc := &stubTitleService{}
	r := newTitleRouter(svc)

	w := postJSON(t, r, "/api/v1/titles", `{"name":"Gilgamesh","year":0,"category":"books"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created, "request should reach the service")
	assert.Equal(t, 0, svc.created.Year)
}

func TestTitleCreate_NegativeYearBinds(t *testing.T) {
	svc := &stubTitleService{}
	r := newTitleRouter(svc)

	w := postJSON(t, r, "/api/v1/titles", `{"name":"Odyssey","year":-700,"category":"books"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, -700, svc.created.Year)
}

func TestTitleCreate_MissingNameIs400(t *testing.T) {
	svc := &stubTitleService{}
	r := newTitleRouter(svc)

	w := postJSON(t, r, "/api/v1/titles", `{"year":1999,"category":"films"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.created)
}
