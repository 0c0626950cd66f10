package events

import (
	"context"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/actor"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
	"github.com/shiftboard/shiftboard-backend/pkg/messaging"
)

// Publisher sends one typed event. *messaging.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// ScheduleEventPublisher publishes shift lifecycle events
type ScheduleEventPublisher struct {
	publisher Publisher
	logger    *logger.Logger
}

// NewScheduleEventPublisher creates a publisher on the schedule exchange
func NewScheduleEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ScheduleEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeScheduleEvents, "schedule-service", log)
	if err != nil {
		return nil, err
	}
	return NewWithPublisher(publisher, log), nil
}

// NewWithPublisher wraps an existing publisher
func NewWithPublisher(p Publisher, log *logger.Logger) *ScheduleEventPublisher {
	return &ScheduleEventPublisher{
		publisher: p,
		logger:    log,
	}
}

// PublishShiftCreated publishes a shift created event
func (p *ScheduleEventPublisher) PublishShiftCreated(ctx context.Context, shift *domain.Shift, by *actor.Actor) {
	p.publish(ctx, messaging.EventShiftCreated, shiftEvent(shift, by), shift.ID)
}

// PublishShiftUpdated publishes a shift updated event carrying the stored state
func (p *ScheduleEventPublisher) PublishShiftUpdated(ctx context.Context, shift *domain.Shift, by *actor.Actor) {
	p.publish(ctx, messaging.EventShiftUpdated, shiftEvent(shift, by), shift.ID)
}

// PublishShiftDeleted publishes a shift deleted event
func (p *ScheduleEventPublisher) PublishShiftDeleted(ctx context.Context, shift *domain.Shift, by *actor.Actor) {
	data := messaging.ShiftDeletedEvent{
		ShiftID:    shift.ID,
		EmployeeID: shift.EmployeeID,
		Date:       shift.Date,
		ActorID:    by.IDPtr(),
	}
	p.publish(ctx, messaging.EventShiftDeleted, data, shift.ID)
}

// PublishDayReplaced publishes the outcome of a bulk delete or a day replacement.
// shifts is empty for a plain bulk delete.
func (p *ScheduleEventPublisher) PublishDayReplaced(ctx context.Context, employeeID, date string, removed int64, shifts []*domain.Shift, by *actor.Actor) {
	ids := make([]string, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}

	data := messaging.DayReplacedEvent{
		EmployeeID: employeeID,
		Date:       date,
		Removed:    removed,
		ShiftIDs:   ids,
		ActorID:    by.IDPtr(),
	}
	if err := p.publisher.Publish(ctx, messaging.EventDayReplaced, data); err != nil {
		p.logger.Error().Err(err).
			Str("employee_id", employeeID).
			Str("date", date).
			Msg("failed to publish day replaced event")
	}
}

func (p *ScheduleEventPublisher) publish(ctx context.Context, eventType string, data interface{}, shiftID string) {
	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("event", eventType).Str("shift_id", shiftID).Msg("failed to publish shift event")
	}
}

func shiftEvent(shift *domain.Shift, by *actor.Actor) messaging.ShiftEvent {
	return messaging.ShiftEvent{
		ShiftID:     shift.ID,
		EmployeeID:  shift.EmployeeID,
		CategoryTag: shift.EmployeeCategoryTag,
		Date:        shift.Date,
		StartTime:   shift.StartTime,
		EndTime:     shift.EndTime,
		Approved:    shift.Approved,
		ActorID:     by.IDPtr(),
	}
}
