package grader

import "context"

// DefaultFeedback is the feedback attached to every degraded assessment.
const DefaultFeedback = "Unable to assess code at this time."

// AssessmentInput carries the submission artefacts handed to the grader.
type AssessmentInput struct {
	Code        string
	Description string
	Criterion   string
	Difficulty  string
}

// Assessment is the structured feedback produced for a submission.
type Assessment struct {
	Score               int      `json:"score"`
	Feedback            string   `json:"feedback"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Suggestions         []string `json:"suggestions"`
}

// Assessor grades a code submission against a challenge's criterion.
// Implementations never fail: every error condition collapses to the
// sentinel default assessment so callers need no error handling.
type Assessor interface {
	Assess(ctx context.Context, input AssessmentInput) Assessment
}

// DefaultAssessment returns the sentinel degraded assessment, optionally
// with a more specific feedback message.
func DefaultAssessment(feedback string) Assessment {
	if feedback == "" {
		feedback = DefaultFeedback
	}
	return Assessment{
		Score:               0,
		Feedback:            feedback,
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Suggestions:         []string{},
	}
}
