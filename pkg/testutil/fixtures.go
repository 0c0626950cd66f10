package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
)

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{}
}

func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Corporation returns a corporation with the default 08:00-24:00 hours.
func (f *FixtureFactory) Corporation(opts ...func(*domain.Corporation)) domain.Corporation {
	seq := f.nextSeq()
	corp := domain.Corporation{
		ID:                   uuid.New().String(),
		Name:                 fmt.Sprintf("Corporation %d", seq),
		BusinessDayStartHour: PtrInt(domain.DefaultStartHour),
		BusinessDayEndHour:   PtrInt(domain.DefaultEndHour),
	}
	for _, opt := range opts {
		opt(&corp)
	}
	return corp
}

// WithHours sets the corporation's business day hours
func WithHours(start, end int) func(*domain.Corporation) {
	return func(c *domain.Corporation) {
		c.BusinessDayStartHour = PtrInt(start)
		c.BusinessDayEndHour = PtrInt(end)
	}
}

// WithCorporationName sets the corporation name
func WithCorporationName(name string) func(*domain.Corporation) {
	return func(c *domain.Corporation) {
		c.Name = name
	}
}

// Employee returns an active employee with no corporation.
func (f *FixtureFactory) Employee(opts ...func(*domain.Employee)) domain.Employee {
	seq := f.nextSeq()
	emp := domain.Employee{
		ID:          uuid.New().String(),
		Name:        fmt.Sprintf("Employee %03d", seq),
		CategoryTag: "barista",
	}
	for _, opt := range opts {
		opt(&emp)
	}
	return emp
}

// WithEmployeeName sets the employee name
func WithEmployeeName(name string) func(*domain.Employee) {
	return func(e *domain.Employee) {
		e.Name = name
	}
}

// WithCategory sets the employee category tag
func WithCategory(tag string) func(*domain.Employee) {
	return func(e *domain.Employee) {
		e.CategoryTag = tag
	}
}

// InCorporation links the employee to corp by id
func InCorporation(corp domain.Corporation) func(*domain.Employee) {
	return func(e *domain.Employee) {
		e.CorporationID = PtrString(corp.ID)
		e.CorporationName = PtrString(corp.Name)
	}
}

// WithLegacyCorporation sets only the free-text corporation name
func WithLegacyCorporation(name string) func(*domain.Employee) {
	return func(e *domain.Employee) {
		e.CorporationID = nil
		e.CorporationName = PtrString(name)
	}
}

// Deleted marks the employee as soft-deleted
func Deleted() func(*domain.Employee) {
	return func(e *domain.Employee) {
		now := time.Now()
		e.DeletedAt = &now
	}
}

// Shift returns a pending shift for emp; id and timestamps are left to the store.
func (f *FixtureFactory) Shift(emp domain.Employee, date, start, end string, opts ...func(*domain.Shift)) domain.Shift {
	s := domain.Shift{
		EmployeeID:          emp.ID,
		EmployeeCategoryTag: emp.CategoryTag,
		Date:                date,
		StartTime:           start,
		EndTime:             end,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Approved marks a shift fixture as approved
func Approved() func(*domain.Shift) {
	return func(s *domain.Shift) {
		s.Approved = true
	}
}
