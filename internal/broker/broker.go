// Package broker provides message broker implementations for user domain
// events.
package broker

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Handler processes one delivered message. A non-nil error signals the
// broker that processing failed; redelivery is bounded by the broker
// implementation.
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Broker defines the message broker interface.
type Broker interface {
	// Publish sends a message to the given routing key.
	Publish(ctx context.Context, routingKey string, body []byte) error

	// Subscribe binds a queue to the routing keys and delivers messages to
	// the handler until ctx is canceled.
	Subscribe(ctx context.Context, queue string, routingKeys []string, handler Handler) error

	// Close closes the broker connection.
	Close() error

	// Healthy returns whether the broker is healthy.
	Healthy() bool
}

// Config holds broker configuration.
type Config struct {
	Type     string // "rabbitmq", "kafka", or "none"
	URL      string
	Exchange string
	Queue    string
	GroupID  string
}

// newReconnectBackOff returns the backoff policy used for detached broker
// reconnection. It never gives up on its own; reconnect loops stop when the
// broker is closed.
func newReconnectBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0
	return bo
}

// NoOpBroker is a no-operation broker for when messaging is disabled.
type NoOpBroker struct{}

// NewNoOpBroker creates a new no-op broker.
func NewNoOpBroker() *NoOpBroker {
	return &NoOpBroker{}
}

// Publish does nothing.
func (b *NoOpBroker) Publish(ctx context.Context, routingKey string, body []byte) error {
	return nil
}

// Subscribe does nothing.
func (b *NoOpBroker) Subscribe(ctx context.Context, queue string, routingKeys []string, handler Handler) error {
	return nil
}

// Close does nothing.
func (b *NoOpBroker) Close() error {
	return nil
}

// Healthy always returns true.
func (b *NoOpBroker) Healthy() bool {
	return true
}
