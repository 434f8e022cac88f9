package broker

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/auth-platform/user-service/internal/observability"
	"github.com/auth-platform/user-service/internal/user"
)

// RabbitMQBroker implements the Broker interface using a durable topic
// exchange. Published messages are persistent; consumption uses manual
// acknowledgment with bounded redelivery (a message that fails after being
// redelivered once is dropped instead of looping).
type RabbitMQBroker struct {
	mu          sync.RWMutex
	conn        *amqp.Connection
	channel     *amqp.Channel
	url         string
	exchange    string
	logger      *observability.Logger
	subs        []subscription
	healthy     bool
	closed      bool
	notifyClose chan *amqp.Error
}

type subscription struct {
	ctx         context.Context
	queue       string
	routingKeys []string
	handler     Handler
}

// NewRabbitMQBroker connects to RabbitMQ, declares the topic exchange, and
// starts a detached recovery goroutine. Reconnection never blocks callers:
// while the connection is down, Publish fails fast.
func NewRabbitMQBroker(url, exchange string, logger *observability.Logger) (*RabbitMQBroker, error) {
	b := &RabbitMQBroker{
		url:         url,
		exchange:    exchange,
		logger:      logger.WithComponent("rabbitmq"),
		notifyClose: make(chan *amqp.Error),
	}

	if err := b.connect(); err != nil {
		return nil, err
	}

	go b.handleReconnect()

	return b, nil
}

func (b *RabbitMQBroker) connect() error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return user.WrapError(user.ErrBrokerDown, "failed to connect to RabbitMQ", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close() // Error intentionally ignored - already handling channel error
		return user.WrapError(user.ErrBrokerDown, "failed to open channel", err)
	}

	err = channel.ExchangeDeclare(
		b.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return user.WrapError(user.ErrBrokerDown, "failed to declare exchange", err)
	}

	b.mu.Lock()
	b.conn = conn
	b.channel = channel
	b.healthy = true
	b.notifyClose = make(chan *amqp.Error)
	b.conn.NotifyClose(b.notifyClose)
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	// Re-establish consumers that were running before the connection dropped.
	for _, sub := range subs {
		if err := b.startConsumer(sub); err != nil {
			b.logger.Error("failed to restore consumer", err)
		}
	}

	return nil
}

func (b *RabbitMQBroker) handleReconnect() {
	for {
		b.mu.RLock()
		notify := b.notifyClose
		b.mu.RUnlock()

		err, ok := <-notify
		if !ok || err == nil {
			return // Connection closed normally
		}

		b.mu.Lock()
		b.healthy = false
		b.mu.Unlock()

		b.logger.Error("connection lost, reconnecting", err)

		retryErr := backoff.Retry(func() error {
			b.mu.RLock()
			closed := b.closed
			b.mu.RUnlock()

			if closed {
				return nil // Stop retrying if closed
			}

			return b.connect()
		}, newReconnectBackOff())
		if retryErr != nil {
			b.logger.Error("reconnect abandoned", retryErr)
			return
		}

		b.mu.RLock()
		closed := b.closed
		b.mu.RUnlock()
		if closed {
			return
		}

		b.logger.Info("connection restored")
	}
}

// Subscribe binds a durable queue to the routing keys and consumes with
// manual acknowledgment until ctx is canceled.
func (b *RabbitMQBroker) Subscribe(ctx context.Context, queue string, routingKeys []string, handler Handler) error {
	sub := subscription{
		ctx:         ctx,
		queue:       queue,
		routingKeys: routingKeys,
		handler:     handler,
	}

	if err := b.startConsumer(sub); err != nil {
		return err
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return nil
}

func (b *RabbitMQBroker) startConsumer(sub subscription) error {
	b.mu.RLock()
	channel := b.channel
	b.mu.RUnlock()

	if channel == nil {
		return user.ErrBrokerDown
	}

	queue, err := channel.QueueDeclare(
		sub.queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return user.WrapError(user.ErrBrokerDown, "failed to declare queue", err)
	}

	for _, key := range sub.routingKeys {
		err = channel.QueueBind(
			queue.Name, // queue name
			key,        // routing key
			b.exchange, // exchange
			false,      // no-wait
			nil,        // arguments
		)
		if err != nil {
			return user.WrapError(user.ErrBrokerDown, "failed to bind queue", err)
		}
	}

	msgs, err := channel.Consume(
		queue.Name, // queue
		"",         // consumer
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return user.WrapError(user.ErrBrokerDown, "failed to start consuming", err)
	}

	go func() {
		for {
			select {
			case <-sub.ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := sub.handler(sub.ctx, msg.RoutingKey, msg.Body); err != nil {
					// First failure requeues once; a redelivered message is
					// dropped to avoid an unbounded redelivery loop.
					_ = msg.Nack(false, !msg.Redelivered)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}

// Publish sends a persistent message to the topic exchange.
func (b *RabbitMQBroker) Publish(ctx context.Context, routingKey string, body []byte) error {
	b.mu.RLock()
	channel := b.channel
	healthy := b.healthy
	b.mu.RUnlock()

	if channel == nil || !healthy {
		return user.ErrBrokerDown
	}

	err := channel.PublishWithContext(ctx,
		b.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return user.WrapError(user.ErrBrokerDown, "failed to publish message", err)
	}

	return nil
}

// Close closes the broker connection.
func (b *RabbitMQBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.healthy = false

	var errs []error
	if b.channel != nil {
		if err := b.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Healthy returns whether the broker is healthy.
func (b *RabbitMQBroker) Healthy() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.healthy && !b.closed
}
