package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-api/internal/dto"
	"github.com/skillforge/skillforge-api/internal/repository"
)

// ErrUserNotFound indicates the user cannot be located.
var ErrUserNotFound = errors.New("user not found")

// UserService exposes candidate profile operations.
type UserService interface {
	Get(ctx context.Context, id uint) (dto.UserResponse, error)
	UpdateSkills(ctx context.Context, id uint, payload dto.UpdateSkillsRequest) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs a user profile service.
func NewUserService(userRepo repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     userRepo,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Get(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdateSkills replaces the user's skill list. Entries are trimmed and blank
// entries dropped; an empty list clears the skills.
func (s *userService) UpdateSkills(ctx context.Context, id uint, payload dto.UpdateSkillsRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	skills := make([]string, 0, len(payload.Skills))
	for _, skill := range payload.Skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}

	user, err := s.users.UpdateSkills(ctx, id, skills)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}
