package service

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
)

// requireFields takes name/value pairs and reports every blank value as missing.
func requireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return errors.MissingFields(missing...)
	}
	return nil
}

func checkDate(date string) error {
	if _, err := domain.ParseDate(date); err != nil {
		return errors.Validation(map[string]string{"date": "must be a date in YYYY-MM-DD form"})
	}
	return nil
}

// validateTimes runs the window checks and turns a rejection into a 400 that
// carries the offending times and the effective business hours.
func validateTimes(start, end string, w domain.BusinessWindow) (domain.Interval, *errors.AppError) {
	iv, err := domain.ValidateShiftTimes(start, end, w)
	if err == nil {
		return iv, nil
	}

	var rej *domain.TimeRejection
	if !errors.As(err, &rej) {
		return iv, errors.Internal(err.Error())
	}

	details := map[string]string{
		"start_time":     rej.StartTime,
		"end_time":       rej.EndTime,
		"business_start": rej.Window.StartLabel(),
		"business_end":   rej.Window.EndLabel(),
	}
	if rej.Reason != domain.ReasonInvalidTimeFormat {
		details["start_minute"] = strconv.Itoa(rej.StartMinute)
		details["end_minute"] = strconv.Itoa(rej.EndMinute)
	}

	return iv, errors.Wrap(rej, rej.Reason.Code(), rej.Error(), http.StatusBadRequest).WithDetails(details)
}

// conflictError reports the shift a candidate overlaps. Slots that are not
// stored yet have no id, so conflicting_shift_id is omitted for them.
func conflictError(c *domain.Shift) *errors.AppError {
	details := map[string]string{
		"conflicting_start": c.StartTime,
		"conflicting_end":   c.EndTime,
	}
	if c.ID != "" {
		details["conflicting_shift_id"] = c.ID
	}

	msg := fmt.Sprintf("shift overlaps an existing shift from %s to %s", c.StartTime, c.EndTime)
	return errors.Wrap(errors.ErrConflict, domain.ReasonConflictDetected.Code(), msg, http.StatusConflict).WithDetails(details)
}
