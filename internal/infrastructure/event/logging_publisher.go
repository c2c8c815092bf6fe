package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/floresya/backend/internal/domain/shared"
)

// LoggingPublisher writes domain events to the structured log. It is the
// default EventPublisher; a broker-backed implementation can replace it
// without touching the services.
type LoggingPublisher struct {
	logger *zap.Logger
}

// NewLoggingPublisher creates a new LoggingPublisher
func NewLoggingPublisher(logger *zap.Logger) *LoggingPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingPublisher{logger: logger}
}

// Publish logs the event with its identifying fields
func (p *LoggingPublisher) Publish(_ context.Context, event shared.DomainEvent) error {
	p.logger.Info("domain event",
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var _ shared.EventPublisher = (*LoggingPublisher)(nil)
