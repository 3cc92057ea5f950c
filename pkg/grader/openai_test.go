package grader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewOpenAIAssessorRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIAssessor(OpenAIConfig{})
	require.Error(t, err)
}

func TestParseAssessmentExtractsEmbeddedJSON(t *testing.T) {
	content := "Here is my review:\n{\"score\": 85, \"feedback\": \"Correct and efficient\", \"strengths\": [\"concise\"], \"areas_for_improvement\": [], \"suggestions\": []}\nHope this helps."

	assessment, reason, err := parseAssessment(content)
	require.NoError(t, err)
	require.Empty(t, reason)
	require.Equal(t, 85, assessment.Score)
	require.Equal(t, "Correct and efficient", assessment.Feedback)
	require.Equal(t, []string{"concise"}, assessment.Strengths)
	require.Empty(t, assessment.AreasForImprovement)
	require.Empty(t, assessment.Suggestions)
}

func TestParseAssessmentFallsBackPerField(t *testing.T) {
	assessment, _, err := parseAssessment(`{"score": 40}`)
	require.NoError(t, err)
	require.Equal(t, 40, assessment.Score)
	require.Empty(t, assessment.Feedback)
	require.NotNil(t, assessment.Strengths)
	require.NotNil(t, assessment.AreasForImprovement)
	require.NotNil(t, assessment.Suggestions)
}

func TestParseAssessmentClampsScore(t *testing.T) {
	high, _, err := parseAssessment(`{"score": 250}`)
	require.NoError(t, err)
	require.Equal(t, 100, high.Score)

	low, _, err := parseAssessment(`{"score": -5}`)
	require.NoError(t, err)
	require.Equal(t, 0, low.Score)
}

func TestParseAssessmentRejectsMissingObject(t *testing.T) {
	_, reason, err := parseAssessment("I could not produce a structured review.")
	require.Error(t, err)
	require.Equal(t, "no_json", reason)
}

func TestParseAssessmentRejectsMalformedObject(t *testing.T) {
	_, reason, err := parseAssessment(`{"score": "not a number"}`)
	require.Error(t, err)
	require.Equal(t, "parse", reason)
}

func TestDefaultAssessmentShape(t *testing.T) {
	assessment := DefaultAssessment("")
	require.Zero(t, assessment.Score)
	require.Equal(t, DefaultFeedback, assessment.Feedback)
	require.Empty(t, assessment.Strengths)
	require.Empty(t, assessment.AreasForImprovement)
	require.Empty(t, assessment.Suggestions)
}

func newTestAssessor(t *testing.T, handler http.HandlerFunc) *OpenAIAssessor {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	assessor := &OpenAIAssessor{
		client: openai.NewClientWithConfig(config),
		cfg:    OpenAIConfig{Model: "gpt-4o-mini", MaxTokens: 1024, Temperature: 0.2},
		tracer: otel.Tracer("grader-test"),
		logger: zerolog.Nop(),
	}
	return assessor
}

func TestAssessDegradesOnServerError(t *testing.T) {
	assessor := newTestAssessor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	assessment := assessor.Assess(context.Background(), AssessmentInput{Code: "print('hi')"})
	require.Equal(t, DefaultAssessment(""), assessment)
}

func TestAssessDegradesOnEmptyContent(t *testing.T) {
	assessor := newTestAssessor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{},
		})
	})

	assessment := assessor.Assess(context.Background(), AssessmentInput{Code: "print('hi')"})
	require.Equal(t, DefaultAssessment(""), assessment)
}

func TestAssessParsesWrappedResponse(t *testing.T) {
	assessor := newTestAssessor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": "Review follows. {\"score\": 72, \"feedback\": \"Works\", \"strengths\": [\"clear\"], \"areas_for_improvement\": [\"naming\"], \"suggestions\": [\"add tests\"]}",
					},
				},
			},
		})
	})

	assessment := assessor.Assess(context.Background(), AssessmentInput{Code: "print('hi')", Difficulty: "medium"})
	require.Equal(t, 72, assessment.Score)
	require.Equal(t, "Works", assessment.Feedback)
	require.Equal(t, []string{"clear"}, assessment.Strengths)
	require.Equal(t, []string{"naming"}, assessment.AreasForImprovement)
	require.Equal(t, []string{"add tests"}, assessment.Suggestions)
}

func TestAssessNotesInvalidFormatInFeedback(t *testing.T) {
	assessor := newTestAssessor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": "I cannot grade this submission.",
					},
				},
			},
		})
	})

	assessment := assessor.Assess(context.Background(), AssessmentInput{Code: "print('hi')"})
	require.Zero(t, assessment.Score)
	require.Contains(t, assessment.Feedback, DefaultFeedback)
	require.Contains(t, assessment.Feedback, "invalid response format")
}
