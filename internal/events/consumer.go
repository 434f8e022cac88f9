package events

import (
	"context"
	"fmt"

	"github.com/auth-platform/user-service/internal/broker"
	"github.com/auth-platform/user-service/internal/observability"
	"github.com/auth-platform/user-service/internal/user"
)

// Consumer is the standing subscriber for user domain events. For each
// delivered event it rebinds the originating request's correlation id into
// a fresh context and logs one structured line, so the consumer's output
// joins the producer-side logs on trace_id. Processing is idempotent:
// handling the same (event_type, user_id) twice is harmless, which is what
// at-least-once delivery requires.
type Consumer struct {
	broker  broker.Broker
	queue   string
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewConsumer creates a new event consumer. An empty queue selects the
// default queue name; metrics may be nil.
func NewConsumer(b broker.Broker, queue string, logger *observability.Logger, metrics *observability.Metrics) *Consumer {
	if queue == "" {
		queue = Queue
	}
	return &Consumer{
		broker:  b,
		queue:   queue,
		logger:  logger.WithComponent("event-consumer"),
		metrics: metrics,
	}
}

// Start subscribes to all user event routing keys. It returns after the
// subscription is established; message handling runs until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.broker.Subscribe(ctx, c.queue, RoutingKeys(), c.Handle); err != nil {
		return err
	}
	c.logger.Info("event consumer started")
	return nil
}

// Handle processes one delivered message. A decode failure is returned to
// the broker, which bounds redelivery; an unknown event type is logged and
// acknowledged so it cannot loop.
func (c *Consumer) Handle(ctx context.Context, routingKey string, body []byte) error {
	event, err := Decode(body)
	if err != nil {
		c.logger.Error("failed to decode event", err)
		return fmt.Errorf("decode event: %w", err)
	}

	ctx = observability.WithCorrelationID(ctx, event.TraceID)

	switch event.EventType {
	case user.EventCreated, user.EventUpdated, user.EventDeleted:
		c.logger.WithContext(ctx).Event().
			Str("event_type", event.EventType).
			Int64("user_id", event.Data.UserID).
			Msg("user event received")
		if c.metrics != nil {
			c.metrics.RecordEventConsumed(event.EventType)
		}
	default:
		c.logger.WithContext(ctx).Event().
			Str("event_type", event.EventType).
			Msg("unknown event type received")
	}

	return nil
}

// Close closes the underlying broker connection.
func (c *Consumer) Close() error {
	return c.broker.Close()
}
