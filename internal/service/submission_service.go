package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-api/internal/dto"
	"github.com/skillforge/skillforge-api/internal/models"
	"github.com/skillforge/skillforge-api/internal/observability"
	"github.com/skillforge/skillforge-api/internal/repository"
	"github.com/skillforge/skillforge-api/pkg/grader"
)

// PassingScore is the threshold at or above which a submission counts as a
// completed challenge for both the user and the challenge itself.
const PassingScore = 70

// ErrSubmissionNotFound indicates the submission cannot be located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionForbidden indicates the caller does not own the submission.
var ErrSubmissionForbidden = errors.New("forbidden")

// ErrEmptyCode indicates the submitted code is empty after trimming.
var ErrEmptyCode = errors.New("code must not be empty")

// Feedback messages written to terminal submissions.
const (
	feedbackChallengeMissing = "Challenge not found."
	feedbackNoCriteria       = "This challenge has no assessment criteria defined, so your submission was recorded without a score."
	feedbackInternalError    = "An unexpected error occurred while assessing your submission."
)

// Assessment outcome labels for metrics.
const (
	outcomeAssessed         = "assessed"
	outcomeNoCriteria       = "no_criteria"
	outcomeChallengeMissing = "challenge_missing"
	outcomeFailed           = "failed"
)

// SubmissionService accepts new submissions and drives each one through
// background assessment to a terminal state.
type SubmissionService interface {
	Create(ctx context.Context, userID uint, payload dto.SubmissionRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint, viewerID uint) (dto.SubmissionResponse, error)
	ListForUser(ctx context.Context, userID uint) ([]dto.SubmissionResponse, error)
}

// SubmissionConfig describes pipeline configuration knobs.
type SubmissionConfig struct {
	// AssessmentTimeout bounds the grading call so a hung grader cannot
	// leak the task indefinitely. Terminal-state writes are not subject to
	// it; a timed-out grading still lands as a degraded assessment.
	AssessmentTimeout time.Duration
}

type submissionService struct {
	submissions repository.SubmissionRepository
	challenges  repository.ChallengeRepository
	users       repository.UserRepository
	assessor    grader.Assessor
	events      SubmissionEventPublisher
	validator   *validator.Validate
	logger      zerolog.Logger
	config      SubmissionConfig
	now         func() time.Time
}

// NewSubmissionService constructs the submission pipeline. The assessor and
// event publisher may be nil; a nil assessor degrades every assessment to the
// grader's default result.
func NewSubmissionService(submissionRepo repository.SubmissionRepository, challengeRepo repository.ChallengeRepository, userRepo repository.UserRepository, assessor grader.Assessor, events SubmissionEventPublisher, validate *validator.Validate, logger zerolog.Logger, cfg SubmissionConfig) SubmissionService {
	if cfg.AssessmentTimeout <= 0 {
		cfg.AssessmentTimeout = 45 * time.Second
	}

	return &submissionService{
		submissions: submissionRepo,
		challenges:  challengeRepo,
		users:       userRepo,
		assessor:    assessor,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		config:      cfg,
		now:         time.Now,
	}
}

// Create persists the submission and schedules exactly one background
// assessment for it. It returns as soon as the row is durable; the caller
// observes assessment progress by polling Get.
func (s *submissionService) Create(ctx context.Context, userID uint, payload dto.SubmissionRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if strings.TrimSpace(payload.Code) == "" {
		return dto.SubmissionResponse{}, ErrEmptyCode
	}

	// Challenge existence is checked by the background task, not here. A
	// stale reference surfaces through the submission's feedback field.
	submission := models.Submission{
		UserID:      userID,
		ChallengeID: payload.ChallengeID,
		Code:        payload.Code,
		Status:      models.SubmissionStatusSubmitted,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	observability.SubmissionsCreated().Inc()
	s.scheduleAssessment(submission.ID)

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Get(ctx context.Context, id uint, viewerID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.UserID != viewerID {
		return dto.SubmissionResponse{}, ErrSubmissionForbidden
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListForUser(ctx context.Context, userID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionListResponse(submissions), nil
}

// scheduleAssessment spawns the single-shot background task for the
// submission. Fire and forget: the request path never waits on it, and a
// panicking task is logged instead of crashing the process.
func (s *submissionService) scheduleAssessment(id uint) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().Interface("panic", r).Uint("submission_id", id).Msg("assessment task panicked")
			}
		}()

		// Detached from the request context on purpose: the task must
		// outlive the HTTP request. Only the grading call itself is
		// deadline-bounded, inside assess.
		s.assess(context.Background(), id)
	}()
}

// assess drives one submission to its terminal state. It runs exactly once
// per submission and never retries; a submission left in the submitted state
// by a crash stays there.
func (s *submissionService) assess(ctx context.Context, id uint) {
	start := time.Now()

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Uint("submission_id", id).Msg("submission vanished before assessment")
			return
		}
		s.logger.Error().Err(err).Uint("submission_id", id).Msg("failed to load submission for assessment")
		return
	}

	if submission.IsTerminal() {
		return
	}

	challenge, err := s.challenges.GetByID(ctx, submission.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			submission.Status = models.SubmissionStatusFailed
			submission.Feedback = feedbackChallengeMissing
			s.finalize(ctx, &submission, outcomeChallengeMissing, start)
			return
		}
		s.fail(ctx, &submission, start, err)
		return
	}

	if !challenge.HasGradingCriteria() {
		now := s.now()
		submission.Status = models.SubmissionStatusAssessed
		submission.Feedback = feedbackNoCriteria
		submission.AssessedAt = &now
		s.finalize(ctx, &submission, outcomeNoCriteria, start)
		return
	}

	assessment := grader.DefaultAssessment("")
	if s.assessor != nil {
		// The timeout covers grading only. Expiring it must not poison
		// the terminal write below, which runs on the parent context.
		gradeCtx, cancel := context.WithTimeout(ctx, s.config.AssessmentTimeout)
		assessment = s.assessor.Assess(gradeCtx, grader.AssessmentInput{
			Code:        submission.Code,
			Description: challenge.Description,
			Criterion:   challenge.ExpectedFunctionality,
			Difficulty:  challenge.Difficulty,
		})
		cancel()
	}

	now := s.now()
	score := assessment.Score
	submission.Status = models.SubmissionStatusAssessed
	submission.Score = &score
	submission.Feedback = assessment.Feedback
	submission.Strengths = datatypes.NewJSONSlice(assessment.Strengths)
	submission.Improvements = datatypes.NewJSONSlice(assessment.AreasForImprovement)
	submission.Suggestions = datatypes.NewJSONSlice(assessment.Suggestions)
	submission.AssessedAt = &now

	if err := s.submissions.Update(ctx, &submission); err != nil {
		s.fail(ctx, &submission, start, err)
		return
	}

	if score >= PassingScore {
		s.recordCompletion(ctx, submission)
	}

	observability.AssessmentsCompleted().WithLabelValues(outcomeAssessed).Inc()
	observability.AssessmentDuration().Observe(time.Since(start).Seconds())
	s.publish(submission)
	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("challenge_id", submission.ChallengeID).
		Int("score", score).
		Msg("submission assessed")
}

// finalize writes an already-terminal submission and emits the bookkeeping
// shared by every outcome.
func (s *submissionService) finalize(ctx context.Context, submission *models.Submission, outcome string, start time.Time) {
	if err := s.submissions.Update(ctx, submission); err != nil {
		s.logger.Error().Err(err).Uint("submission_id", submission.ID).Msg("failed to persist terminal submission state")
		return
	}

	observability.AssessmentsCompleted().WithLabelValues(outcome).Inc()
	observability.AssessmentDuration().Observe(time.Since(start).Seconds())
	s.publish(*submission)
	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("status", submission.Status).
		Str("outcome", outcome).
		Msg("submission reached terminal state")
}

// fail marks the submission failed after an unexpected internal error. A
// grading-service failure never lands here; the grader degrades internally.
func (s *submissionService) fail(ctx context.Context, submission *models.Submission, start time.Time, cause error) {
	s.logger.Error().Err(cause).Uint("submission_id", submission.ID).Msg("assessment failed unexpectedly")

	submission.Status = models.SubmissionStatusFailed
	submission.Feedback = feedbackInternalError
	s.finalize(ctx, submission, outcomeFailed, start)
}

// recordCompletion applies the two counter increments for a passing score.
// Each increment is a single atomic UPDATE; concurrent passing submissions
// for the same user or challenge all land.
func (s *submissionService) recordCompletion(ctx context.Context, submission models.Submission) {
	if err := s.users.IncrementCompletedChallenges(ctx, submission.UserID); err != nil {
		s.logger.Error().Err(err).Uint("user_id", submission.UserID).Msg("failed to increment user completed challenges")
	}
	if err := s.challenges.IncrementCompletions(ctx, submission.ChallengeID); err != nil {
		s.logger.Error().Err(err).Uint("challenge_id", submission.ChallengeID).Msg("failed to increment challenge completions")
	}
}

func (s *submissionService) publish(submission models.Submission) {
	if s.events == nil {
		return
	}
	s.events.Publish(SubmissionEvent{
		SubmissionID: submission.ID,
		UserID:       submission.UserID,
		ChallengeID:  submission.ChallengeID,
		Status:       submission.Status,
		Score:        submission.Score,
		OccurredAt:   s.now(),
	})
}
