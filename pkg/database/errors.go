package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError.
// Returns nil if err is not a *pq.Error or the code is not one we translate.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case "23514": // check_violation
		return mapCheckConstraint(pqErr)

	case "23505": // unique_violation
		return errors.Conflict("a record with these values already exists")

	case "23503": // foreign_key_violation
		if strings.Contains(pqErr.Constraint, "employee") {
			return errors.NotFound("employee")
		}
		return errors.BadRequest("referenced record does not exist")

	case "23502": // not_null_violation
		col := pqErr.Column
		if col == "" {
			return errors.MissingFields("required field")
		}
		return errors.MissingFields(col)

	case "22007", "22008": // invalid_datetime_format, datetime_field_overflow
		return errors.Validation(map[string]string{
			"date": "must be a calendar date in YYYY-MM-DD form",
		})

	default:
		return nil
	}
}

func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "start_time"):
		return errors.Validation(map[string]string{"start_time": "must be HH:MM"})
	case strings.Contains(constraint, "end_time"):
		return errors.Validation(map[string]string{"end_time": "must be HH:MM"})
	case strings.Contains(constraint, "business_day"):
		return errors.Validation(map[string]string{"business_day_start_hour": "must be between 0 and 48"})
	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}
