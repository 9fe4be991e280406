package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/repositories"
	"github.com/Dosada05/club-tournaments/utils"
	"github.com/google/uuid"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

type RegisterInput struct {
	DisplayName string  `json:"displayName"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	SkillLevel  *string `json:"skillLevel,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{
		userRepo: userRepo,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.DisplayName)
	email := utils.NormalizeEmail(input.Email)
	if name == "" {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "displayName is required")
	}
	if !utils.IsValidEmail(email) {
		return nil, newError(CodeInvalidArgument, ErrValidationFailed, "email address is invalid")
	}
	if len(input.Password) < minPasswordLength {
		return nil, newError(CodeInvalidArgument, ErrPasswordTooShort, "password must be at least %d characters", minPasswordLength)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		DisplayName:  name,
		Email:        email,
		PasswordHash: hashedPassword,
		SkillLevel:   input.SkillLevel,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, newError(CodeFailedPrecondition, ErrEmailTaken, "email is already taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	invalid := newError(CodeUnauthenticated, ErrInvalidCredentials, "invalid email or password")

	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, invalid
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, newError(CodeNotFound, ErrUserNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	user.PasswordHash = ""
	return user, nil
}
