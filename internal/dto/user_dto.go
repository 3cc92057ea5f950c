package dto

import "github.com/skillforge/skillforge-api/internal/models"

// UpdateSkillsRequest represents the payload for replacing a user's skills.
// An empty list clears the skills, so the field is not required.
type UpdateSkillsRequest struct {
	Skills []string `json:"skills" validate:"dive,max=128"`
}

// UserResponse represents a user profile to API consumers.
type UserResponse struct {
	ID                  uint     `json:"id"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Skills              []string `json:"skills"`
	CompletedChallenges int64    `json:"completed_challenges"`
}

// NewUserResponse builds a response DTO from a model.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:                  user.ID,
		Name:                user.Name,
		Email:               user.Email,
		Skills:              user.Skills,
		CompletedChallenges: user.CompletedChallenges,
	}
}
