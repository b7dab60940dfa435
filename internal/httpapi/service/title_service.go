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

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]dto.TitleResponse, int64, error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, actor access.Actor, req dto.TitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor access.Actor, id int64, req dto.TitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor access.Actor, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	reviewRepo   repository.ReviewRepository
	ratings      *cache.RatingCache
	validator    *validate.Validator
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	reviewRepo repository.ReviewRepository,
	ratings *cache.RatingCache,
	validator *validate.Validator,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewRepo:   reviewRepo,
		ratings:      ratings,
		validator:    validator,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]dto.TitleResponse, int64, error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		rating, err := s.rating(ctx, titles[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, dto.TitleFromModel(&titles[i], rating))
	}
	return out, total, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	rating, err := s.rating(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.TitleFromModel(title, rating)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, actor access.Actor, req dto.TitleRequest) (*dto.TitleResponse, error) {
	if err := requirePermission(actor, access.MethodCreate, access.KindTitle, nil); err != nil {
		return nil, err
	}

	title, verr, err := s.buildTitle(ctx, req)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	return s.Get(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, actor access.Actor, id int64, req dto.TitleRequest) (*dto.TitleResponse, error) {
	if err := requirePermission(actor, access.MethodUpdate, access.KindTitle, nil); err != nil {
		return nil, err
	}

	existing, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}

	title, verr, err := s.buildTitle(ctx, req)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}

	title.ID = existing.ID
	title.CreatedAt = existing.CreatedAt
	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}
	if err := s.titleRepo.ReplaceGenres(ctx, title, title.Genres); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if err := requirePermission(actor, access.MethodDelete, access.KindTitle, nil); err != nil {
		return err
	}
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		return asNotFound(err)
	}
	s.ratings.Invalidate(ctx, id)
	return nil
}

// buildTitle validates the payload and resolves the category and genre
// slugs. Field problems come back aggregated so the client sees them all.
func (s *titleService) buildTitle(ctx context.Context, req dto.TitleRequest) (*models.Title, *apperr.ValidationError, error) {
	verr := &apperr.ValidationError{}
	if msg := s.validator.TitleYear(req.Year); msg != "" {
		verr.Add("year", msg)
	}

	var category *models.Category
	cat, err := s.categoryRepo.FindBySlug(ctx, req.Category)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		verr.Add("category", "unknown category slug")
	} else {
		category = cat
	}

	// dedupe before the lookup: the IN query returns one row per
	// distinct slug, so a repeated valid slug must not count as unknown
	seen := make(map[string]struct{}, len(req.Genres))
	slugs := make([]string, 0, len(req.Genres))
	for _, slug := range req.Genres {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		slugs = append(slugs, slug)
	}

	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, nil, err
	}
	if len(genres) != len(slugs) {
		verr.Add("genre", "unknown genre slug")
	}

	if verr.HasErrors() {
		return nil, verr, nil
	}

	return &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  category.ID,
		Genres:      genres,
	}, nil, nil
}

// rating serves the derived mean score, preferring the cache and falling
// back to the SQL aggregate. nil means the title has no reviews.
func (s *titleService) rating(ctx context.Context, titleID int64) (*float64, error) {
	if cached, hit := s.ratings.Get(ctx, titleID); hit {
		return cached, nil
	}
	avg, err := s.reviewRepo.AverageScore(ctx, titleID)
	if err != nil {
		return nil, err
	}
	s.ratings.Set(ctx, titleID, avg)
	return avg, nil
}
