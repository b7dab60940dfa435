package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/access"
	"reviewhub/internal/apperr"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/validate"
)

type UserService interface {
	List(ctx context.Context, actor access.Actor, search string, page, pageSize int) ([]models.User, int64, error)
	Create(ctx context.Context, actor access.Actor, req dto.CreateUserRequest) (*models.User, error)
	GetByUsername(ctx context.Context, actor access.Actor, username string) (*models.User, error)
	Update(ctx context.Context, actor access.Actor, username string, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor access.Actor, username string) error
	Me(ctx context.Context, actor access.Actor) (*models.User, error)
	UpdateMe(ctx context.Context, actor access.Actor, req dto.UpdateUserRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, actor access.Actor, search string, page, pageSize int) ([]models.User, int64, error) {
	if err := requirePermission(actor, access.MethodRead, access.KindUser, nil); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(ctx, search, page, pageSize)
}

func (s *userService) Create(ctx context.Context, actor access.Actor, req dto.CreateUserRequest) (*models.User, error) {
	if err := requirePermission(actor, access.MethodCreate, access.KindUser, nil); err != nil {
		return nil, err
	}
	if verr := validateUserFields(req.Username, req.Email, req.Role); verr != nil {
		return nil, verr
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email", "user with this email or username already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, actor access.Actor, username string) (*models.User, error) {
	if err := requirePermission(actor, access.MethodRead, access.KindUser, nil); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, asNotFound(err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor access.Actor, username string, req dto.UpdateUserRequest) (*models.User, error) {
	if err := requirePermission(actor, access.MethodUpdate, access.KindUser, nil); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, asNotFound(err)
	}
	return s.applyUpdate(ctx, user, req, true)
}

func (s *userService) Delete(ctx context.Context, actor access.Actor, username string) error {
	if err := requirePermission(actor, access.MethodDelete, access.KindUser, nil); err != nil {
		return err
	}
	return asNotFound(s.userRepo.DeleteByUsername(ctx, username))
}

func (s *userService) Me(ctx context.Context, actor access.Actor) (*models.User, error) {
	if !access.EvaluateSelf(actor).Allowed() {
		return nil, apperr.ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return user, nil
}

// UpdateMe is the self-service path. Attempts to change username, email
// or role are silently dropped rather than rejected; only the profile
// fields go through. Kept from the original API contract.
func (s *userService) UpdateMe(ctx context.Context, actor access.Actor, req dto.UpdateUserRequest) (*models.User, error) {
	if !access.EvaluateSelf(actor).Allowed() {
		return nil, apperr.ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return s.applyUpdate(ctx, user, req, false)
}

func (s *userService) applyUpdate(ctx context.Context, user *models.User, req dto.UpdateUserRequest, admin bool) (*models.User, error) {
	if admin {
		verr := &apperr.ValidationError{}
		if req.Username != nil {
			if msg := validate.Username(*req.Username); msg != "" {
				verr.Add("username", msg)
			}
		}
		if req.Email != nil {
			if msg := validate.Email(*req.Email); msg != "" {
				verr.Add("email", msg)
			}
		}
		if req.Role != nil && !access.ValidRole(*req.Role) {
			verr.Add("role", "unknown role")
		}
		if verr.HasErrors() {
			return nil, verr
		}
		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email", "user with this email or username already exists")
		}
		return nil, err
	}
	return user, nil
}

func validateUserFields(username, email, role string) *apperr.ValidationError {
	verr := &apperr.ValidationError{}
	if msg := validate.Username(username); msg != "" {
		verr.Add("username", msg)
	}
	if msg := validate.Email(email); msg != "" {
		verr.Add("email", msg)
	}
	if role != "" && !access.ValidRole(role) {
		verr.Add("role", "unknown role")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}
