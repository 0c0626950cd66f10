package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// maxDeliveries is how many dead-letter round trips a message gets before it is parked
const maxDeliveries = 3

// MessageHandler is a function that handles a message
type MessageHandler func(ctx context.Context, event *Event) error

// Consumer dispatches events from a queue to handlers keyed by event type
type Consumer struct {
	rmq       *RabbitMQ
	queueName string
	logger    *logger.Logger

	mu       sync.RWMutex
	handlers map[string]MessageHandler
}

// NewConsumer declares queueName and returns a consumer for it
func NewConsumer(rmq *RabbitMQ, queueName string, log *logger.Logger) (*Consumer, error) {
	if _, err := rmq.DeclareQueue(queueName); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &Consumer{
		rmq:       rmq,
		queueName: queueName,
		handlers:  make(map[string]MessageHandler),
		logger:    log,
	}, nil
}

// Subscribe binds the queue to exchange for routingKeyPattern
func (c *Consumer) Subscribe(exchange, routingKeyPattern string) error {
	if err := c.rmq.DeclareExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := c.rmq.BindQueue(c.queueName, exchange, routingKeyPattern); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	c.logger.Info().
		Str("queue", c.queueName).
		Str("exchange", exchange).
		Str("routing_key", routingKeyPattern).
		Msg("subscribed to exchange")

	return nil
}

// RegisterHandler registers a handler for a specific event type
func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = handler
}

// Start consumes in a background goroutine until ctx is cancelled. When the
// broker connection drops, consumption resumes after the next reconnect.
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.consume()
	if err != nil {
		return err
	}

	c.logger.Info().Str("queue", c.queueName).Msg("consumer started")

	go c.run(ctx, msgs)

	return nil
}

func (c *Consumer) consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.rmq.Channel().Consume(
		c.queueName, // queue
		"",          // consumer tag (auto-generated)
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return msgs, nil
}

func (c *Consumer) run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Str("queue", c.queueName).Msg("consumer stopped")
			return
		case msg, ok := <-msgs:
			if ok {
				c.handleMessage(ctx, msg)
				continue
			}

			c.logger.Warn().Str("queue", c.queueName).Msg("message channel closed, waiting for reconnect")
			next, err := c.resume(ctx)
			if err != nil {
				c.logger.Info().Str("queue", c.queueName).Msg("consumer stopped")
				return
			}
			msgs = next
			c.logger.Info().Str("queue", c.queueName).Msg("consumer resumed")
		}
	}
}

// resume retries consume after each reconnect until it succeeds or ctx ends.
func (c *Consumer) resume(ctx context.Context) (<-chan amqp.Delivery, error) {
	for {
		wait := c.rmq.Reconnected()
		if msgs, err := c.consume(); err == nil {
			return msgs, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wait:
		}
	}
}

func (c *Consumer) handler(eventType string) (MessageHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[eventType]
	return h, ok
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error().Err(err).Msg("failed to unmarshal event")
		_ = msg.Reject(false)
		return
	}

	ctx = WithCorrelationID(ctx, event.CorrelationID)

	handler, ok := c.handler(event.Type)
	if !ok {
		c.logger.Debug().
			Str("event_type", event.Type).
			Msg("no handler registered for event type")
		_ = msg.Ack(false)
		return
	}

	if err := handler(ctx, &event); err != nil {
		retries := deathCount(msg)
		log := c.logger.Error().
			Err(err).
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Int("retry_count", retries)

		if retries >= maxDeliveries {
			log.Msg("max retries exceeded, sending to DLQ")
			_ = msg.Reject(false)
			return
		}

		log.Msg("failed to process event, requeueing")
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

func deathCount(msg amqp.Delivery) int {
	deaths, ok := msg.Headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		if d, ok := death.(amqp.Table); ok {
			if count, ok := d["count"].(int64); ok {
				return int(count)
			}
		}
	}
	return 0
}
