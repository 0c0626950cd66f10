package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// publishChannel is the part of *amqp.Channel the publisher needs
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// liveChannel publishes on whatever channel rmq holds at call time, so a
// publisher survives reconnects.
type liveChannel struct {
	rmq *RabbitMQ
}

func (l liveChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return l.rmq.Channel().PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

// Publisher handles publishing events to RabbitMQ
type Publisher struct {
	channel  publishChannel
	exchange string
	source   string
	logger   *logger.Logger
}

// NewPublisher declares exchange and returns a publisher bound to it
func NewPublisher(rmq *RabbitMQ, exchange, source string, log *logger.Logger) (*Publisher, error) {
	if err := rmq.DeclareExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		channel:  liveChannel{rmq: rmq},
		exchange: exchange,
		source:   source,
		logger:   log,
	}, nil
}

// Publish wraps data in an Event and publishes it with eventType as routing key
func (p *Publisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	correlationID := CorrelationID(ctx)

	event, err := NewEvent(eventType, p.source, correlationID, data)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		eventType,  // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			Type:          eventType,
			AppId:         p.source,
			DeliveryMode:  amqp.Persistent,
			MessageId:     event.ID,
			CorrelationId: correlationID,
			Timestamp:     event.Timestamp,
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug().
		Str("event_type", eventType).
		Str("event_id", event.ID).
		Str("correlation_id", correlationID).
		Msg("event published")

	return nil
}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationID retrieves the correlation ID from context
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
