package broker

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/auth-platform/user-service/internal/observability"
	"github.com/auth-platform/user-service/internal/user"
)

// KafkaBroker implements the Broker interface using Kafka. Routing keys map
// to topics; consumer-group offsets give at-least-once delivery.
type KafkaBroker struct {
	mu      sync.RWMutex
	writer  *kafka.Writer
	brokers []string
	groupID string
	logger  *observability.Logger
	healthy bool
	closed  bool
}

// NewKafkaBroker creates a new Kafka broker.
func NewKafkaBroker(brokers []string, groupID string, logger *observability.Logger) (*KafkaBroker, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaBroker{
		writer:  writer,
		brokers: brokers,
		groupID: groupID,
		logger:  logger.WithComponent("kafka"),
		healthy: true,
	}, nil
}

// Subscribe starts one reader per routing key in the configured consumer
// group. The queue argument is unused; Kafka group semantics replace it.
//
// Delivery semantics differ from the RabbitMQ path: the group offset
// advances once a message is read, so a handler error is logged and the
// message is not redelivered (at-most-once with respect to handler
// failures). Transient read errors back off exponentially before the
// next fetch.
func (b *KafkaBroker) Subscribe(ctx context.Context, queue string, routingKeys []string, handler Handler) error {
	for _, key := range routingKeys {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  b.brokers,
			Topic:    key,
			GroupID:  b.groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		})

		go func(reader *kafka.Reader, topic string) {
			defer reader.Close()

			bo := newReconnectBackOff()
			for {
				select {
				case <-ctx.Done():
					return
				default:
					msg, err := reader.ReadMessage(ctx)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						b.logger.Error("failed to read message", err)
						select {
						case <-ctx.Done():
							return
						case <-time.After(bo.NextBackOff()):
						}
						continue
					}
					bo.Reset()

					if err := handler(ctx, topic, msg.Value); err != nil {
						b.logger.Error("message handling failed", err)
					}
				}
			}
		}(reader, key)
	}

	return nil
}

// Publish sends a message to the topic matching the routing key.
func (b *KafkaBroker) Publish(ctx context.Context, routingKey string, body []byte) error {
	b.mu.RLock()
	writer := b.writer
	closed := b.closed
	b.mu.RUnlock()

	if closed || writer == nil {
		return user.ErrBrokerDown
	}

	err := writer.WriteMessages(ctx, kafka.Message{
		Topic: routingKey,
		Value: body,
		Time:  time.Now(),
	})
	if err != nil {
		b.mu.Lock()
		b.healthy = false
		b.mu.Unlock()
		return user.WrapError(user.ErrBrokerDown, "failed to publish message", err)
	}

	return nil
}

// Close closes the broker connection.
func (b *KafkaBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.healthy = false

	if b.writer != nil {
		return b.writer.Close()
	}
	return nil
}

// Healthy returns whether the broker is healthy.
func (b *KafkaBroker) Healthy() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.healthy && !b.closed
}
