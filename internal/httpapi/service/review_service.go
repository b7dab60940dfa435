package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/access"
	"reviewhub/internal/apperr"
	"reviewhub/internal/cache"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/validate"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	Create(ctx context.Context, actor access.Actor, titleID int64, req dto.ReviewRequest) (*models.Review, error)
	Update(ctx context.Context, actor access.Actor, titleID, id int64, req dto.ReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, actor access.Actor, titleID, id int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	ratings    *cache.RatingCache
	validator  *validate.Validator
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	ratings *cache.RatingCache,
	validator *validate.Validator,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
		validator:  validator,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		return nil, 0, asNotFound(err)
	}
	return s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
}

func (s *reviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return review, nil
}

// Create adds a review for a title. The validator's duplicate pre-check
// catches most repeats; a concurrent insert slipping past it still hits
// the (title_id, author_id) unique index, and that constraint violation
// is reported the same way.
func (s *reviewService) Create(ctx context.Context, actor access.Actor, titleID int64, req dto.ReviewRequest) (*models.Review, error) {
	if err := requirePermission(actor, access.MethodCreate, access.KindReview, nil); err != nil {
		return nil, err
	}
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		return nil, asNotFound(err)
	}
	if err := s.validator.Review(ctx, titleID, actor.ID, req.Score, true); err != nil {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("", "duplicate review")
		}
		return nil, err
	}
	s.ratings.Invalidate(ctx, titleID)

	return s.reviewRepo.GetByID(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, actor access.Actor, titleID, id int64, req dto.ReviewRequest) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	if err := requirePermission(actor, access.MethodUpdate, access.KindReview, review); err != nil {
		return nil, err
	}
	if err := s.validator.Review(ctx, titleID, actor.ID, req.Score, false); err != nil {
		return nil, err
	}

	review.Text = req.Text
	review.Score = req.Score
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	s.ratings.Invalidate(ctx, titleID)

	return s.reviewRepo.GetByID(ctx, titleID, id)
}

func (s *reviewService) Delete(ctx context.Context, actor access.Actor, titleID, id int64) error {
	review, err := s.reviewRepo.GetByID(ctx, titleID, id)
	if err != nil {
		return asNotFound(err)
	}
	if err := requirePermission(actor, access.MethodDelete, access.KindReview, review); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return asNotFound(err)
	}
	s.ratings.Invalidate(ctx, titleID)
	return nil
}
