package service

import (
	"context"
	"fmt"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
)

// ConflictDetector looks for overlapping shifts on an employee's business date
type ConflictDetector struct {
	shifts ShiftStore
}

// NewConflictDetector creates a new detector
func NewConflictDetector(shifts ShiftStore) *ConflictDetector {
	return &ConflictDetector{shifts: shifts}
}

// FindConflict returns the first stored shift for (employeeID, date) that
// overlaps candidate, skipping excludeID. A nil shift means no conflict.
// Store failures are returned unchanged.
func (d *ConflictDetector) FindConflict(
	ctx context.Context,
	employeeID, date string,
	candidate domain.Interval,
	w domain.BusinessWindow,
	excludeID string,
) (*domain.Shift, error) {
	existing, err := d.shifts.Find(ctx, domain.ShiftFilter{EmployeeID: employeeID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts for conflict check: %w", err)
	}
	return domain.FirstConflict(existing, candidate, w, excludeID), nil
}
