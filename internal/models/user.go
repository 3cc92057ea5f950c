package models

import (
	"time"

	"gorm.io/datatypes"
)

// User represents a candidate that can attempt challenges.
type User struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	Name                string                      `gorm:"size:255;not null" json:"name"`
	Email               string                      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Skills              datatypes.JSONSlice[string] `json:"skills"`
	CompletedChallenges int64                       `gorm:"not null;default:0" json:"completed_challenges"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}
