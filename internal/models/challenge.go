package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Challenge represents a skill challenge candidates can attempt.
type Challenge struct {
	ID                    uint                        `gorm:"primaryKey" json:"id"`
	Title                 string                      `gorm:"size:255;not null" json:"title"`
	Description           string                      `gorm:"type:text" json:"description"`
	Category              string                      `gorm:"size:64;index" json:"category"`
	Difficulty            string                      `gorm:"size:32" json:"difficulty"`
	Skills                datatypes.JSONSlice[string] `json:"skills"`
	TimeEstimate          string                      `gorm:"size:64" json:"time_estimate"`
	Completions           int64                       `gorm:"not null;default:0" json:"completions"`
	ExpectedFunctionality string                      `gorm:"type:text" json:"expected_functionality"`
	SampleSolution        string                      `gorm:"type:text" json:"sample_solution"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
}

// HasGradingCriteria reports whether the challenge defines an assessment criterion.
func (c Challenge) HasGradingCriteria() bool {
	return strings.TrimSpace(c.ExpectedFunctionality) != ""
}
