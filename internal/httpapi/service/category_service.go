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

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	Create(ctx context.Context, actor access.Actor, c *models.Category) error
	Delete(ctx context.Context, actor access.Actor, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *categoryService) Create(ctx context.Context, actor access.Actor, c *models.Category) error {
	if err := requirePermission(actor, access.MethodCreate, access.KindCategory, nil); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = strings.TrimSpace(c.Slug)
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("slug", "category slug already exists")
		}
		return err
	}
	return nil
}

// Delete removes a category by slug. A category still referenced by a
// title makes the store reject the delete through the foreign key; that
// surfaces as a conflict rather than a crash.
func (s *categoryService) Delete(ctx context.Context, actor access.Actor, slug string) error {
	if err := requirePermission(actor, access.MethodDelete, access.KindCategory, nil); err != nil {
		return err
	}
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperr.Conflict("slug", "category is still referenced by titles")
		}
		return asNotFound(err)
	}
	return nil
}
