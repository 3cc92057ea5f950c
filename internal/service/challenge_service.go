package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-api/internal/dto"
	"github.com/skillforge/skillforge-api/internal/repository"
)

// ErrChallengeNotFound indicates the challenge cannot be located.
var ErrChallengeNotFound = errors.New("challenge not found")

// ChallengeService exposes the challenge catalogue.
type ChallengeService interface {
	List(ctx context.Context, category string) ([]dto.ChallengeResponse, error)
	Get(ctx context.Context, id uint) (dto.ChallengeResponse, error)
}

type challengeService struct {
	challenges repository.ChallengeRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewChallengeService builds the challenge catalogue service. The cache is
// optional; a nil client or any cache failure falls through to the database.
func NewChallengeService(challengeRepo repository.ChallengeRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ChallengeService {
	return &challengeService{
		challenges: challengeRepo,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "challenge_service").Logger(),
	}
}

func (s *challengeService) List(ctx context.Context, category string) ([]dto.ChallengeResponse, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	cacheKey := fmt.Sprintf("challenges:category:%s", category)
	if category == "" {
		cacheKey = "challenges:all"
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response []dto.ChallengeResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("category", category).Msg("challenge list cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read challenge list cache")
		}
	}

	challenges, err := s.challenges.List(ctx, category)
	if err != nil {
		return nil, err
	}

	response := dto.NewChallengeListResponse(challenges)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store challenge list cache")
			}
		}
	}

	return response, nil
}

func (s *challengeService) Get(ctx context.Context, id uint) (dto.ChallengeResponse, error) {
	challenge, err := s.challenges.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChallengeResponse{}, ErrChallengeNotFound
		}
		return dto.ChallengeResponse{}, err
	}
	return dto.NewChallengeResponse(challenge), nil
}
