package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/internal/observability"
	"github.com/noah-isme/asap-api/pkg/ai"
)

// Report event types.
const (
	EventReportCreated  = "report.created"
	EventReportDeleted  = "report.deleted"
	EventReportsCleared = "reports.cleared"
)

// ReportPublisher announces report history changes.
type ReportPublisher interface {
	Publish(ctx context.Context, event dto.ReportEvent) error
}

// MessagePublisher is the subset of *nats.Conn used for report events.
type MessagePublisher interface {
	Publish(subject string, data []byte) error
}

type natsReportPublisher struct {
	conn    MessagePublisher
	subject string
	logger  zerolog.Logger
}

// NewNATSReportPublisher publishes report events on subject. A nil conn yields a no-op publisher.
func NewNATSReportPublisher(conn MessagePublisher, subject string, logger zerolog.Logger) ReportPublisher {
	if conn == nil || subject == "" {
		return noopReportPublisher{}
	}
	return &natsReportPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "report_publisher").Logger(),
	}
}

func (p *natsReportPublisher) Publish(ctx context.Context, event dto.ReportEvent) error {
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if event.CorrelationID == "" {
		event.CorrelationID = observability.CorrelationID(ctx)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		observability.Logger(ctx, p.logger).Warn().Err(err).Str("event", event.Type).Msg("failed to publish report event")
		return err
	}
	return nil
}

type noopReportPublisher struct{}

func (noopReportPublisher) Publish(context.Context, dto.ReportEvent) error { return nil }

func createdEvent(report ai.ProjectReport) dto.ReportEvent {
	return dto.ReportEvent{
		Type:         EventReportCreated,
		ReportID:     report.ID,
		ProjectTitle: report.ProjectTitle,
		OverallScore: report.OverallScore,
	}
}
