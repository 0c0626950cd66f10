package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/database"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
)

const employeeColumns = `id, name, category_tag, corporation_id, corporation_name, deleted_at`

// EmployeeRepository reads the staff directory
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByID returns the employee, including soft-deleted ones, or NotFound.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NotFound("employee")
	}

	var emp domain.Employee
	err := r.db.GetContext(ctx, &emp, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &emp, nil
}

// FindAll lists employees ordered by name.
func (r *EmployeeRepository) FindAll(ctx context.Context, excludeDeleted bool) ([]domain.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees"
	if excludeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY name, id"

	employees := []domain.Employee{}
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}
