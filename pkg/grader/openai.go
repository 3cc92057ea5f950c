package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	assessmentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skillforge",
		Subsystem: "grader",
		Name:      "assessment_duration_seconds",
		Help:      "Duration of remote grading requests",
	}, []string{"model"})

	assessmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillforge",
		Subsystem: "grader",
		Name:      "assessment_failures_total",
		Help:      "Number of grading requests that degraded to the default assessment",
	}, []string{"model", "reason"})
)

// OpenAIConfig defines configuration options for the OpenAI assessor.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIAssessor implements Assessor against the OpenAI chat completion API.
type OpenAIAssessor struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIAssessor builds a new assessor using the provided configuration.
func NewOpenAIAssessor(cfg OpenAIConfig) (*OpenAIAssessor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	tracer := otel.Tracer("github.com/skillforge/skillforge-api/pkg/grader")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIAssessor{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "openai_assessor").Logger(),
	}, nil
}

// Assess sends the grading request to OpenAI and parses the response.
// A single attempt is made; every failure mode degrades to the sentinel
// default assessment instead of returning an error.
func (a *OpenAIAssessor) Assess(parent context.Context, input AssessmentInput) Assessment {
	ctx, span := a.tracer.Start(parent, "grader.assess", trace.WithAttributes(
		attribute.String("model", a.cfg.Model),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: assessorSystemPrompt(input.Difficulty),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildAssessmentPrompt(input),
			},
		},
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, request)
	assessmentDuration.WithLabelValues(a.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		a.degrade(span, "request", err)
		return DefaultAssessment("")
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		a.degrade(span, "empty_content", fmt.Errorf("no message content returned"))
		return DefaultAssessment("")
	}

	content := resp.Choices[0].Message.Content
	assessment, reason, err := parseAssessment(content)
	if err != nil {
		a.degrade(span, reason, err)
		switch reason {
		case "no_json":
			return DefaultAssessment(DefaultFeedback + " The assessment service returned an invalid response format.")
		default:
			return DefaultAssessment(DefaultFeedback + " The assessment response was in an unexpected format.")
		}
	}

	return assessment
}

func (a *OpenAIAssessor) degrade(span trace.Span, reason string, err error) {
	assessmentFailures.WithLabelValues(a.cfg.Model, reason).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	a.logger.Error().Err(err).Str("reason", reason).Msg("grading request degraded to default assessment")
}

func assessorSystemPrompt(difficulty string) string {
	if difficulty == "" {
		difficulty = "unspecified"
	}
	return fmt.Sprintf("You are an expert technical reviewer grading a candidate's solution to a %s difficulty challenge. "+
		"Evaluate correctness, efficiency, code quality, and edge case handling. "+
		"Respond with a JSON object containing score (integer 0-100), feedback (string), "+
		"strengths (array of strings), areas_for_improvement (array of strings) and suggestions (array of strings).", difficulty)
}

func buildAssessmentPrompt(input AssessmentInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Challenge\n")
	builder.WriteString(input.Description)
	builder.WriteString("\n\n## Expected Functionality\n")
	builder.WriteString(input.Criterion)
	builder.WriteString("\n\n## Candidate Code\n")
	builder.WriteString(input.Code)
	builder.WriteString("\n\nReturn JSON.")
	return builder.String()
}

// parseAssessment extracts the embedded JSON object from the completion text.
// The remote service does not guarantee a pure-JSON body, so the object is
// located by the first '{' and last '}' rather than parsed strictly.
func parseAssessment(content string) (Assessment, string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return Assessment{}, "no_json", fmt.Errorf("no json object found in assessment response")
	}

	var parsed Assessment
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return Assessment{}, "parse", fmt.Errorf("parse assessment json: %w", err)
	}

	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 100 {
		parsed.Score = 100
	}
	if parsed.Strengths == nil {
		parsed.Strengths = []string{}
	}
	if parsed.AreasForImprovement == nil {
		parsed.AreasForImprovement = []string{}
	}
	if parsed.Suggestions == nil {
		parsed.Suggestions = []string{}
	}

	return parsed, "", nil
}
