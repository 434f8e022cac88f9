package events

import (
	"context"
	"errors"

	"github.com/auth-platform/user-service/internal/broker"
	"github.com/auth-platform/user-service/internal/observability"
)

// Producer publishes user domain events to the broker with the routing key
// equal to the event type. It implements user.EventPublisher.
type Producer struct {
	broker  broker.Broker
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewProducer creates a new event producer. metrics may be nil.
func NewProducer(b broker.Broker, logger *observability.Logger, metrics *observability.Metrics) *Producer {
	return &Producer{
		broker:  b,
		logger:  logger.WithComponent("event-producer"),
		metrics: metrics,
	}
}

// Publish emits one domain event for a completed mutation. The correlation
// id is read from the context and is mandatory: publishing without one is a
// programming error, not a runtime condition.
func (p *Producer) Publish(ctx context.Context, eventType string, userID int64) error {
	traceID := observability.GetCorrelationID(ctx)
	if traceID == "" {
		return ErrMissingTraceID
	}

	body, err := Encode(Event{
		EventType: eventType,
		Data:      EventData{UserID: userID},
		TraceID:   traceID,
	})
	if err != nil {
		return err
	}

	if err := p.broker.Publish(ctx, eventType, body); err != nil {
		if p.metrics != nil {
			p.metrics.RecordEventPublishFailure(eventType)
		}
		return err
	}

	if p.metrics != nil {
		p.metrics.RecordEventPublished(eventType)
	}

	p.logger.WithContext(ctx).Event().
		Str("event_type", eventType).
		Int64("user_id", userID).
		Msg("user event published")

	return nil
}

// ErrMissingTraceID is returned when Publish is called on a context with no
// correlation id bound. This indicates a caller bug, not a broker outage.
var ErrMissingTraceID = errors.New("event published without correlation id")
