package handler

import (
	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/service"
)

// Required fields are checked by the service so that blanks surface as
// MISSING_FIELDS. The tags here only reject malformed values.

type createShiftRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Approved   *bool  `json:"approved"`
}

func (r createShiftRequest) toInput() service.CreateShiftInput {
	return service.CreateShiftInput{
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Approved:   r.Approved,
	}
}

type updateShiftRequest struct {
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Approved  *bool   `json:"approved"`
}

func (r updateShiftRequest) toUpdate() domain.ShiftUpdate {
	return domain.ShiftUpdate{
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Approved:  r.Approved,
	}
}

type slotRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Approved  *bool  `json:"approved"`
}

type replaceDayRequest struct {
	Slots []slotRequest `json:"slots"`
}

func (r replaceDayRequest) toSlots() []service.SlotInput {
	slots := make([]service.SlotInput, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = service.SlotInput{StartTime: s.StartTime, EndTime: s.EndTime, Approved: s.Approved}
	}
	return slots
}

type bulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type replaceDayResponse struct {
	Removed int64           `json:"removed"`
	Shifts  []*domain.Shift `json:"shifts"`
}
