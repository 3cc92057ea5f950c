package dto

import (
	"time"

	"github.com/skillforge/skillforge-api/internal/models"
)

// SubmissionRequest represents the payload for creating a submission.
type SubmissionRequest struct {
	ChallengeID uint   `json:"challenge_id" validate:"required,gt=0"`
	Code        string `json:"code" validate:"required"`
}

// SubmissionResponse represents a submission to API consumers.
type SubmissionResponse struct {
	ID                  uint       `json:"id"`
	UserID              uint       `json:"user_id"`
	ChallengeID         uint       `json:"challenge_id"`
	Code                string     `json:"code"`
	Status              string     `json:"status"`
	Score               *int       `json:"score"`
	Feedback            string     `json:"feedback,omitempty"`
	Strengths           []string   `json:"strengths,omitempty"`
	AreasForImprovement []string   `json:"areas_for_improvement,omitempty"`
	Suggestions         []string   `json:"suggestions,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	AssessedAt          *time.Time `json:"assessed_at,omitempty"`
}

// NewSubmissionResponse builds a response DTO from a model.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:                  submission.ID,
		UserID:              submission.UserID,
		ChallengeID:         submission.ChallengeID,
		Code:                submission.Code,
		Status:              submission.Status,
		Score:               submission.Score,
		Feedback:            submission.Feedback,
		Strengths:           submission.Strengths,
		AreasForImprovement: submission.Improvements,
		Suggestions:         submission.Suggestions,
		CreatedAt:           submission.CreatedAt,
		AssessedAt:          submission.AssessedAt,
	}
}

// NewSubmissionListResponse maps a slice of submissions to DTOs.
func NewSubmissionListResponse(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
