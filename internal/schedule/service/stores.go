// Package service holds the scheduling rules: business window resolution,
// shift validation and conflict checks on write, and the weekly and hourly
// read models.
package service

import (
	"context"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/actor"
)

// ShiftStore persists shift entries. *repository.ShiftRepository implements it.
type ShiftStore interface {
	Find(ctx context.Context, filter domain.ShiftFilter) ([]domain.Shift, error)
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	Insert(ctx context.Context, shift *domain.Shift) error
	UpdateByID(ctx context.Context, id string, upd domain.ShiftUpdate) (*domain.Shift, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, employeeID, date string) (int64, error)
	// ReplaceDay removes every entry for (employeeID, date) and inserts shifts
	// atomically, returning the number removed.
	ReplaceDay(ctx context.Context, employeeID, date string, shifts []*domain.Shift) (int64, error)
}

// EmployeeStore is the read-only staff directory
type EmployeeStore interface {
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	FindAll(ctx context.Context, excludeDeleted bool) ([]domain.Employee, error)
}

// CorporationStore is the read-only corporation directory
type CorporationStore interface {
	FindByID(ctx context.Context, id string) (*domain.Corporation, error)
	FindByName(ctx context.Context, name string) (*domain.Corporation, error)
}

// EventPublisher announces completed writes. Implementations log their own
// failures; a write is never undone because an event was lost.
type EventPublisher interface {
	PublishShiftCreated(ctx context.Context, shift *domain.Shift, by *actor.Actor)
	PublishShiftUpdated(ctx context.Context, shift *domain.Shift, by *actor.Actor)
	PublishShiftDeleted(ctx context.Context, shift *domain.Shift, by *actor.Actor)
	PublishDayReplaced(ctx context.Context, employeeID, date string, removed int64, shifts []*domain.Shift, by *actor.Actor)
}

type noopPublisher struct{}

func (noopPublisher) PublishShiftCreated(context.Context, *domain.Shift, *actor.Actor) {}
func (noopPublisher) PublishShiftUpdated(context.Context, *domain.Shift, *actor.Actor) {}
func (noopPublisher) PublishShiftDeleted(context.Context, *domain.Shift, *actor.Actor) {}
func (noopPublisher) PublishDayReplaced(context.Context, string, string, int64, []*domain.Shift, *actor.Actor) {}
