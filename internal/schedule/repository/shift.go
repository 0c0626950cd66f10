package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/database"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
)

const shiftColumns = `id, employee_id, employee_category_tag, shift_date::text AS shift_date,
	start_time, end_time, approved, created_by, created_at, updated_at`

// ShiftRepository handles shift entry persistence
type ShiftRepository struct {
	db *database.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *database.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Find returns the shifts matching filter in insertion order within each date.
// An employee id that is not a UUID matches nothing.
func (r *ShiftRepository) Find(ctx context.Context, filter domain.ShiftFilter) ([]domain.Shift, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return []domain.Shift{}, nil
		}
		add("employee_id = $%d", filter.EmployeeID)
	}
	if filter.Date != "" {
		add("shift_date = $%d", filter.Date)
	}
	if filter.From != "" {
		add("shift_date >= $%d", filter.From)
	}
	if filter.To != "" {
		add("shift_date <= $%d", filter.To)
	}

	query := "SELECT " + shiftColumns + " FROM shift_entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY shift_date, created_at, id"

	shifts := []domain.Shift{}
	if err := r.db.SelectContext(ctx, &shifts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find shifts: %w", err)
	}
	return shifts, nil
}

// GetByID returns one shift or a NotFound error
func (r *ShiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NotFound("shift")
	}

	var shift domain.Shift
	err := r.db.GetContext(ctx, &shift, "SELECT "+shiftColumns+" FROM shift_entries WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("shift")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return &shift, nil
}

// Insert assigns an id and stores the shift, filling in the timestamps.
func (r *ShiftRepository) Insert(ctx context.Context, shift *domain.Shift) error {
	return insertShift(ctx, r.db, shift)
}

func insertShift(ctx context.Context, q sqlx.QueryerContext, shift *domain.Shift) error {
	if _, err := uuid.Parse(shift.EmployeeID); err != nil {
		return errors.NotFound("employee")
	}
	shift.ID = uuid.New().String()

	query := `
		INSERT INTO shift_entries (
			id, employee_id, employee_category_tag, shift_date, start_time, end_time, approved, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRowxContext(ctx, query,
		shift.ID, shift.EmployeeID, shift.EmployeeCategoryTag, shift.Date,
		shift.StartTime, shift.EndTime, shift.Approved, shift.CreatedBy,
	).Scan(&shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// UpdateByID applies the non-nil fields of upd and returns the stored row.
func (r *ShiftRepository) UpdateByID(ctx context.Context, id string, upd domain.ShiftUpdate) (*domain.Shift, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NotFound("shift")
	}

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	set := func(column string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Date != nil {
		set("shift_date", *upd.Date)
	}
	if upd.StartTime != nil {
		set("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		set("end_time", *upd.EndTime)
	}
	if upd.Approved != nil {
		set("approved", *upd.Approved)
	}

	query := "UPDATE shift_entries SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 RETURNING " + shiftColumns

	var shift domain.Shift
	err := r.db.GetContext(ctx, &shift, query, args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("shift")
	}
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return nil, appErr
		}
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}
	return &shift, nil
}

// DeleteByID removes one shift and reports whether it existed.
func (r *ShiftRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM shift_entries WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete shift: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// DeleteMany removes every shift an employee has on date. An employee id
// that is not a UUID matches nothing.
func (r *ShiftRepository) DeleteMany(ctx context.Context, employeeID, date string) (int64, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return 0, nil
	}
	return deleteDay(ctx, r.db, employeeID, date)
}

func deleteDay(ctx context.Context, e sqlx.ExecerContext, employeeID, date string) (int64, error) {
	result, err := e.ExecContext(ctx,
		"DELETE FROM shift_entries WHERE employee_id = $1 AND shift_date = $2",
		employeeID, date,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shifts: %w", err)
	}
	return result.RowsAffected()
}

// ReplaceDay deletes the employee's shifts on date and inserts shifts in one
// transaction. Either every row lands or none does.
func (r *ShiftRepository) ReplaceDay(ctx context.Context, employeeID, date string, shifts []*domain.Shift) (int64, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		// nothing stored under such an id, and nothing may be added for it
		if len(shifts) > 0 {
			return 0, errors.NotFound("employee")
		}
		return 0, nil
	}

	var removed int64
	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		n, err := deleteDay(ctx, tx, employeeID, date)
		if err != nil {
			return err
		}
		removed = n

		for _, s := range shifts {
			if err := insertShift(ctx, tx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
