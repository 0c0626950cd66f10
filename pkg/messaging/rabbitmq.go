package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shiftboard/shiftboard-backend/pkg/config"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// RabbitMQ owns one connection and one channel. Watch replaces both when the
// broker drops the connection.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  *config.RabbitMQConfig
	logger  *logger.Logger
	mu      sync.RWMutex
	closed  bool

	// reconnected is closed and replaced after every successful Reconnect
	reconnected chan struct{}
}

// New dials RabbitMQ and opens a channel
func New(cfg *config.RabbitMQConfig, log *logger.Logger) (*RabbitMQ, error) {
	rmq := &RabbitMQ{
		config:      cfg,
		logger:      log.WithComponent("rabbitmq"),
		reconnected: make(chan struct{}),
	}

	if err := rmq.connect(); err != nil {
		return nil, err
	}

	return rmq, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.config.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Qos(r.config.PrefetchCount, 0, false); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	r.conn, r.channel = conn, ch
	r.logger.Info().Msg("connected to RabbitMQ")
	return nil
}

// Channel returns the current channel
func (r *RabbitMQ) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

// Close closes the channel and the connection
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close channel")
		}
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.logger.Info().Msg("RabbitMQ connection closed")
	return nil
}

// Health returns the health status of RabbitMQ
func (r *RabbitMQ) Health() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.conn == nil || r.conn.IsClosed() {
		return map[string]string{"status": "down", "error": "connection closed"}
	}
	return map[string]string{"status": "up"}
}

// DeclareExchange declares a durable topic exchange
func (r *RabbitMQ) DeclareExchange(name string) error {
	return r.Channel().ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
}

// DeclareQueue declares a durable queue that dead-letters into ExchangeDeadLetter
func (r *RabbitMQ) DeclareQueue(name string) (amqp.Queue, error) {
	return r.Channel().QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange": ExchangeDeadLetter,
		},
	)
}

// DeclareDeadLetterQueue declares the dead letter exchange and a catch-all
// dlq.<serviceName> queue bound to it
func (r *RabbitMQ) DeclareDeadLetterQueue(serviceName string) error {
	if err := r.DeclareExchange(ExchangeDeadLetter); err != nil {
		return fmt.Errorf("failed to declare DLX exchange: %w", err)
	}

	queueName := "dlq." + serviceName
	if _, err := r.Channel().QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	if err := r.BindQueue(queueName, ExchangeDeadLetter, "#"); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	return nil
}

// BindQueue binds a queue to an exchange with a routing key pattern
func (r *RabbitMQ) BindQueue(queueName, exchange, routingKey string) error {
	return r.Channel().QueueBind(queueName, routingKey, exchange, false, nil)
}

// Reconnect retries connect up to MaxRetries times, waiting ReconnectDelay between attempts
func (r *RabbitMQ) Reconnect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("connection is permanently closed")
	}

	for i := 0; i < r.config.MaxRetries; i++ {
		r.logger.Info().Int("attempt", i+1).Msg("attempting to reconnect to RabbitMQ")

		err := r.connect()
		if err == nil {
			r.signalReconnected()
			return nil
		}
		r.logger.Warn().Err(err).Msg("reconnection attempt failed")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.config.ReconnectDelay):
		}
	}

	return fmt.Errorf("failed to reconnect after %d attempts", r.config.MaxRetries)
}

// Reconnected returns a channel that is closed by the next successful
// Reconnect. Grab it before retrying work that needs a live channel.
func (r *RabbitMQ) Reconnected() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reconnected
}

// signalReconnected wakes everyone waiting on Reconnected. Callers hold mu.
func (r *RabbitMQ) signalReconnected() {
	close(r.reconnected)
	r.reconnected = make(chan struct{})
}

// Watch blocks until ctx is done, reconnecting whenever the broker closes the
// connection with an error. A clean Close ends the watch.
func (r *RabbitMQ) Watch(ctx context.Context) {
	for {
		r.mu.RLock()
		conn := r.conn
		r.mu.RUnlock()

		lost := conn.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-ctx.Done():
			return
		case amqpErr, ok := <-lost:
			if !ok || amqpErr == nil {
				return
			}
			r.logger.Warn().
				Int("code", amqpErr.Code).
				Str("reason", amqpErr.Reason).
				Msg("RabbitMQ connection lost")

			if err := r.Reconnect(ctx); err != nil {
				r.logger.Error().Err(err).Msg("giving up on RabbitMQ")
				return
			}
		}
	}
}
