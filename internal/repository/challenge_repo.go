package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/skillforge/skillforge-api/internal/models"
)

// ChallengeRepository exposes persistence helpers for challenges.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id uint) (models.Challenge, error)
	List(ctx context.Context, category string) ([]models.Challenge, error)
	IncrementCompletions(ctx context.Context, id uint) error
}

// NewChallengeRepository constructs a challenge repository.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

type challengeRepository struct {
	db *gorm.DB
}

func (r *challengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id uint) (models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.WithContext(ctx).First(&challenge, id).Error
	if err != nil {
		return models.Challenge{}, err
	}
	return challenge, nil
}

func (r *challengeRepository) List(ctx context.Context, category string) ([]models.Challenge, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		// Categories are authored free-form; match them case-insensitively
		// so callers can filter with a normalised value.
		query = query.Where("LOWER(category) = ?", strings.ToLower(trimmed))
	}

	var challenges []models.Challenge
	if err := query.Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

// IncrementCompletions bumps the completions counter in a single UPDATE so
// concurrent qualifying submissions never lose updates.
func (r *challengeRepository) IncrementCompletions(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("id = ?", id).
		UpdateColumn("completions", gorm.Expr("completions + ?", 1)).Error
}
