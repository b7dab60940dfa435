package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"reviewhub/internal/access"
	"reviewhub/internal/apperr"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	Create(ctx context.Context, actor access.Actor, g *models.Genre) error
	Delete(ctx context.Context, actor access.Actor, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *genreService) Create(ctx context.Context, actor access.Actor, g *models.Genre) error {
	if err := requirePermission(actor, access.MethodCreate, access.KindGenre, nil); err != nil {
		return err
	}
	g.Name = strings.TrimSpace(g.Name)
	g.Slug = strings.TrimSpace(g.Slug)
	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("slug", "genre slug already exists")
		}
		return err
	}
	return nil
}

func (s *genreService) Delete(ctx context.Context, actor access.Actor, slug string) error {
	if err := requirePermission(actor, access.MethodDelete, access.KindGenre, nil); err != nil {
		return err
	}
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperr.Conflict("slug", "genre is still referenced by titles")
		}
		return asNotFound(err)
	}
	return nil
}
