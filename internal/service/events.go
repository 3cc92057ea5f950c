package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubmissionEvent describes a submission reaching a terminal state. It is
// broadcast best-effort for downstream consumers (employer dashboards,
// notification fanout); delivery is never required for pipeline correctness.
type SubmissionEvent struct {
	SubmissionID uint      `json:"submission_id"`
	UserID       uint      `json:"user_id"`
	ChallengeID  uint      `json:"challenge_id"`
	Status       string    `json:"status"`
	Score        *int      `json:"score,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// SubmissionEventPublisher broadcasts terminal submission states.
type SubmissionEventPublisher interface {
	Publish(event SubmissionEvent)
}

// NewNATSEventPublisher constructs a publisher backed by a NATS connection.
func NewNATSEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) SubmissionEventPublisher {
	if subject == "" {
		subject = "skillforge.submissions"
	}
	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "submission_events").Logger(),
	}
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

func (p *natsEventPublisher) Publish(event SubmissionEvent) {
	if p.conn == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Uint("submission_id", event.SubmissionID).Msg("failed to encode submission event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Uint("submission_id", event.SubmissionID).Msg("failed to publish submission event")
	}
}
