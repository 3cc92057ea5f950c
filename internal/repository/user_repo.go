package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-api/internal/models"
)

// UserRepository exposes persistence helpers for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	UpdateSkills(ctx context.Context, id uint, skills []string) (models.User, error)
	IncrementCompletedChallenges(ctx context.Context, id uint) error
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) UpdateSkills(ctx context.Context, id uint, skills []string) (models.User, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("skills", datatypes.NewJSONSlice(skills))
	if result.Error != nil {
		return models.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// IncrementCompletedChallenges bumps the counter in a single UPDATE so
// concurrent qualifying submissions never lose updates.
func (r *userRepository) IncrementCompletedChallenges(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("completed_challenges", gorm.Expr("completed_challenges + ?", 1)).Error
}
