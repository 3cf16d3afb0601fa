// Package feed publishes attendance events to NATS so live dashboards can
// follow marking activity without polling.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/attendly/attendly-api/internal/dto"
)

// Publisher implements the AttendanceNotifier interface over a NATS connection.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// Event is the wire form of an attendance feed entry.
type Event struct {
	Record dto.AttendanceResponse `json:"record"`
	SentAt time.Time              `json:"sent_at"`
}

// New constructs a NATS-backed publisher. subjectBase is prefixed to the
// per-session subject, e.g. "attendly.attendance".
func New(conn *nats.Conn, subjectBase string, logger zerolog.Logger) *Publisher {
	subject := strings.TrimSuffix(subjectBase, ".")
	if subject == "" {
		subject = "attendly.attendance"
	}

	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "attendance_feed").Logger(),
	}
}

// AttendanceMarked publishes the committed record. Delivery is best effort;
// callers treat failures as non-fatal.
func (p *Publisher) AttendanceMarked(_ context.Context, record dto.AttendanceResponse) error {
	if p.conn == nil {
		return nil
	}

	payload, err := json.Marshal(Event{Record: record, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode attendance event: %w", err)
	}

	subject := fmt.Sprintf("%s.session.%d", p.subject, record.SessionID)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish attendance event: %w", err)
	}

	p.logger.Debug().Str("subject", subject).Uint("session_id", record.SessionID).Msg("attendance event published")
	return nil
}
