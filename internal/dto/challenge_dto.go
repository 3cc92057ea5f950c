package dto

import "github.com/skillforge/skillforge-api/internal/models"

// ChallengeResponse represents a challenge to API consumers. The sample
// solution is never exposed through this DTO.
type ChallengeResponse struct {
	ID                    uint     `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Category              string   `json:"category"`
	Difficulty            string   `json:"difficulty"`
	Skills                []string `json:"skills"`
	TimeEstimate          string   `json:"time_estimate"`
	Completions           int64    `json:"completions"`
	ExpectedFunctionality string   `json:"expected_functionality,omitempty"`
}

// NewChallengeResponse builds a response DTO from a model.
func NewChallengeResponse(challenge models.Challenge) ChallengeResponse {
	return ChallengeResponse{
		ID:                    challenge.ID,
		Title:                 challenge.Title,
		Description:           challenge.Description,
		Category:              challenge.Category,
		Difficulty:            challenge.Difficulty,
		Skills:                challenge.Skills,
		TimeEstimate:          challenge.TimeEstimate,
		Completions:           challenge.Completions,
		ExpectedFunctionality: challenge.ExpectedFunctionality,
	}
}

// NewChallengeListResponse maps a slice of challenges to DTOs.
func NewChallengeListResponse(challenges []models.Challenge) []ChallengeResponse {
	responses := make([]ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		responses = append(responses, NewChallengeResponse(challenge))
	}
	return responses
}
