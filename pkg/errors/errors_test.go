package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusy(t *testing.T) {
	err := errors.Busy(nil, "schedule is being modified")
	assert.Equal(t, errors.CodeBusy, err.Code)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.True(t, errors.Is(err, errors.ErrBusy))

	cause := stderrors.New("lock timeout")
	wrapped := errors.Busy(cause, "schedule is being modified")
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, "schedule is being modified: lock timeout", wrapped.Error())
}

func TestMissingFields(t *testing.T) {
	err := errors.MissingFields("employee_id", "date")
	assert.Equal(t, errors.CodeMissingFields, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "missing required fields: employee_id, date", err.Message)
	assert.Len(t, err.Details, 2)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(fmt.Errorf("load: %w", errors.NotFound("shift"))))
	assert.Equal(t, "", errors.CodeOf(stderrors.New("plain")))
	assert.Equal(t, "", errors.CodeOf(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("employee")))
	assert.False(t, errors.IsNotFound(errors.Conflict("overlap")))
}

func TestWithDetails(t *testing.T) {
	err := errors.New("OVERLAP", "shift overlaps", http.StatusConflict).
		WithDetails(map[string]string{"conflict_id": "abc"})

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "abc", appErr.Details["conflict_id"])
	assert.Nil(t, appErr.Unwrap())
}
