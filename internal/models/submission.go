package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmissionStatus enumerates possible submission states.
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusAssessed  = "assessed"
	SubmissionStatusFailed    = "failed"
)

// Submission represents a candidate's code attempt against a challenge,
// tracked from creation through background assessment to a terminal state.
type Submission struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	UserID       uint                        `gorm:"not null;index" json:"user_id"`
	ChallengeID  uint                        `gorm:"not null;index" json:"challenge_id"`
	Code         string                      `gorm:"type:text;not null" json:"code"`
	Status       string                      `gorm:"size:32;not null" json:"status"`
	Score        *int                        `json:"score"`
	Feedback     string                      `gorm:"type:text" json:"feedback"`
	Strengths    datatypes.JSONSlice[string] `json:"strengths"`
	Improvements datatypes.JSONSlice[string] `json:"areas_for_improvement"`
	Suggestions  datatypes.JSONSlice[string] `json:"suggestions"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	AssessedAt   *time.Time                  `json:"assessed_at"`
}

// IsTerminal reports whether the submission has reached a final state.
func (s Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusAssessed || s.Status == SubmissionStatusFailed
}
