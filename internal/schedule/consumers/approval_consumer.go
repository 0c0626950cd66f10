package consumers

import (
	"context"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/actor"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
	"github.com/shiftboard/shiftboard-backend/pkg/messaging"
)

const approvalQueue = "schedule-service.approval-events"

// ApprovalSetter applies an approval decision. *service.ShiftService implements it.
type ApprovalSetter interface {
	SetApproval(ctx context.Context, id string, approved bool) (*domain.Shift, error)
}

// ApprovalEventConsumer applies approval decisions made outside this service
type ApprovalEventConsumer struct {
	consumer *messaging.Consumer
	shifts   ApprovalSetter
	logger   *logger.Logger
}

// NewApprovalEventConsumer creates a new approval event consumer
func NewApprovalEventConsumer(rmq *messaging.RabbitMQ, shifts ApprovalSetter, log *logger.Logger) (*ApprovalEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, approvalQueue, log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeScheduleEvents, messaging.EventApprovalChanged); err != nil {
		return nil, err
	}

	c := NewApprovalHandler(shifts, log)
	c.consumer = consumer

	consumer.RegisterHandler(messaging.EventApprovalChanged, c.HandleApprovalChanged)

	return c, nil
}

// NewApprovalHandler returns a consumer that is not attached to a queue.
// Used by tests and for replaying events.
func NewApprovalHandler(shifts ApprovalSetter, log *logger.Logger) *ApprovalEventConsumer {
	return &ApprovalEventConsumer{
		shifts: shifts,
		logger: log.WithComponent("approval-consumer"),
	}
}

// Start starts consuming messages
func (c *ApprovalEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

// HandleApprovalChanged sets the approval flag on the referenced shift.
// Events that can never succeed (no shift id, shift gone) are dropped;
// anything else is returned so the broker redelivers it.
func (c *ApprovalEventConsumer) HandleApprovalChanged(ctx context.Context, event *messaging.Event) error {
	var data messaging.ApprovalChangedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	if data.ShiftID == "" {
		c.logger.Warn().Str("event_id", event.ID).Msg("approval event without shift id, dropping")
		return nil
	}

	reviewer := actor.SystemActor()
	if data.ReviewerID != "" {
		reviewer = &actor.Actor{ID: data.ReviewerID, Role: actor.RoleManager}
	}
	ctx = actor.WithActor(ctx, reviewer)
	ctx = messaging.WithCorrelationID(ctx, event.CorrelationID)

	c.logger.Info().
		Str("shift_id", data.ShiftID).
		Bool("approved", data.Approved).
		Str("reviewer", reviewer.String()).
		Msg("received approval changed event")

	if _, err := c.shifts.SetApproval(ctx, data.ShiftID, data.Approved); err != nil {
		if errors.IsNotFound(err) {
			c.logger.Warn().Str("shift_id", data.ShiftID).Msg("approved shift no longer exists, dropping")
			return nil
		}
		return err
	}

	return nil
}
