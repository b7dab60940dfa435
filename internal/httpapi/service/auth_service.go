package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/access"
	"reviewhub/internal/apperr"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/mail"
	"reviewhub/internal/validate"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

type AuthService interface {
	SignUp(ctx context.Context, username, email string) (*models.User, error)
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (access.Actor, error)
}

type authService struct {
	userRepo  repository.UserRepository
	validator *validate.Validator
	sender    mail.Sender
	logger    *slog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	validator *validate.Validator,
	sender mail.Sender,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		validator: validator,
		sender:    sender,
		logger:    logger,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.AccessTokenTTL,
	}
}

// SignUp validates the pair, get-or-creates the user and issues a fresh
// confirmation code. Repeating a sign-up for the same (username, email)
// just rotates the code; a clash with a different existing user is a
// conflict on the email field. The code is persisted before the mail is
// attempted, and a failed send never rolls the sign-up back.
func (s *authService) SignUp(ctx context.Context, username, email string) (*models.User, error) {
	if verr := s.validator.SignUp(username, email); verr != nil {
		return nil, verr
	}

	user, err := s.userRepo.FindByUsernameAndEmail(ctx, username, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &models.User{Username: username, Email: email}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Somebody else already owns this username or email.
				// The unique constraints in the store are authoritative.
				return nil, apperr.Conflict("email", "user with this email or username already exists")
			}
			return nil, err
		}
	}

	code := uuid.New().String()
	user.ConfirmCode = &code
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	// Best effort: the sign-up already committed.
	body := fmt.Sprintf("%s, your confirmation code is %s", user.Username, code)
	if err := s.sender.Send(user.Email, "reviewhub confirmation code", body); err != nil {
		s.logger.Warn("confirmation mail not delivered", "username", user.Username, "error", err)
	}

	return user, nil
}

// IssueToken exchanges a valid (username, confirm_code) pair for a JWT.
// The code stays valid after the exchange: re-running the same pair keeps
// issuing tokens. Known behavior, kept for compatibility with existing
// clients.
func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	if err := s.validator.TokenExchange(ctx, username, code); err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", asNotFound(err)
	}

	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"superuser": user.Superuser,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
		"iat":       time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses a bearer token into an actor snapshot.
func (s *authService) ValidateToken(tokenString string) (access.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return access.Anonymous, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return access.Anonymous, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	superuser, _ := claims["superuser"].(bool)
	if userID == "" {
		return access.Anonymous, ErrInvalidToken
	}

	return access.Actor{
		ID:        userID,
		Username:  username,
		Role:      access.ParseRole(role),
		Superuser: superuser,
	}, nil
}
