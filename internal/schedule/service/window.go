package service

import (
	"context"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// WindowResolver finds the business window that applies to an employee.
//
// Resolution never fails. Any lookup error, a missing employee or an
// unknown corporation all yield the default 08:00-24:00 window so that
// scheduling keeps working when the directory is incomplete. This is the
// single place where that policy lives.
type WindowResolver struct {
	employees    EmployeeStore
	corporations CorporationStore
	logger       *logger.Logger
}

// NewWindowResolver creates a new resolver
func NewWindowResolver(employees EmployeeStore, corporations CorporationStore, log *logger.Logger) *WindowResolver {
	return &WindowResolver{
		employees:    employees,
		corporations: corporations,
		logger:       log.WithComponent("window-resolver"),
	}
}

// Resolve returns the normalized window for employeeID
func (r *WindowResolver) Resolve(ctx context.Context, employeeID string) domain.BusinessWindow {
	_, w := r.resolve(ctx, employeeID)
	return w
}

// resolve also returns the employee when it could be loaded, nil otherwise
func (r *WindowResolver) resolve(ctx context.Context, employeeID string) (*domain.Employee, domain.BusinessWindow) {
	emp, err := r.employees.FindByID(ctx, employeeID)
	if err != nil || emp == nil {
		r.logger.Warn().Err(err).
			Str("employee_id", employeeID).
			Msg("employee lookup failed, using default business window")
		return nil, domain.DefaultWindow()
	}

	key := emp.CorporationKey()
	if key == "" {
		return emp, domain.DefaultWindow()
	}

	corp, err := r.corporations.FindByID(ctx, key)
	if err != nil || corp == nil {
		corp, err = r.corporations.FindByName(ctx, key)
	}
	if err != nil || corp == nil {
		r.logger.Warn().Err(err).
			Str("employee_id", employeeID).
			Str("corporation", key).
			Msg("corporation lookup failed, using default business window")
		return emp, domain.DefaultWindow()
	}

	return emp, corp.Window()
}
