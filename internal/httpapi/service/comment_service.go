package service

import (
	"context"

	"reviewhub/internal/access"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error)
	Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error)
	Create(ctx context.Context, actor access.Actor, titleID, reviewID int64, req dto.CommentRequest) (*models.Comment, error)
	Update(ctx context.Context, actor access.Actor, titleID, reviewID, id int64, req dto.CommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, actor access.Actor, titleID, reviewID, id int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

// resolveReview checks that the review exists under the given title, so
// comments are only reachable through their real parent chain.
func (s *commentService) resolveReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return review, nil
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return comment, nil
}

func (s *commentService) Create(ctx context.Context, actor access.Actor, titleID, reviewID int64, req dto.CommentRequest) (*models.Comment, error) {
	if err := requirePermission(actor, access.MethodCreate, access.KindComment, nil); err != nil {
		return nil, err
	}
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, actor access.Actor, titleID, reviewID, id int64, req dto.CommentRequest) (*models.Comment, error) {
	comment, err := s.Get(ctx, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}
	if err := requirePermission(actor, access.MethodUpdate, access.KindComment, comment); err != nil {
		return nil, err
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, reviewID, id)
}

func (s *commentService) Delete(ctx context.Context, actor access.Actor, titleID, reviewID, id int64) error {
	comment, err := s.Get(ctx, titleID, reviewID, id)
	if err != nil {
		return err
	}
	if err := requirePermission(actor, access.MethodDelete, access.KindComment, comment); err != nil {
		return err
	}
	return asNotFound(s.commentRepo.Delete(ctx, id))
}
