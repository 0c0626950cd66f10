package domain

import "time"

// DateLayout is the wire and storage form of a business date.
const DateLayout = "2006-01-02"

// Shift is one scheduled work interval for an employee on a business date.
type Shift struct {
	ID         string `db:"id" json:"id"`
	EmployeeID string `db:"employee_id" json:"employee_id"`
	// EmployeeCategoryTag is copied from the employee when the shift is created
	// and is not refreshed afterwards. Reports read it as of creation time.
	EmployeeCategoryTag string    `db:"employee_category_tag" json:"employee_category_tag"`
	Date                string    `db:"shift_date" json:"date"`       // YYYY-MM-DD business date
	StartTime           string    `db:"start_time" json:"start_time"` // HH:MM wall clock
	EndTime             string    `db:"end_time" json:"end_time"`     // HH:MM wall clock
	Approved            bool      `db:"approved" json:"approved"`
	CreatedBy           *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Status is the display status derived from the approval flag.
func (s *Shift) Status() SlotStatus {
	if s.Approved {
		return SlotApproved
	}
	return SlotPending
}

// ShiftFilter narrows a shift lookup. Empty fields do not filter.
// Date matches one day; From/To bound an inclusive date range.
type ShiftFilter struct {
	EmployeeID string
	Date       string
	From       string
	To         string
}

// ShiftUpdate carries the fields an update touches. Nil means unchanged.
type ShiftUpdate struct {
	Date      *string
	StartTime *string
	EndTime   *string
	Approved  *bool
}

// TouchesTimes reports whether the update changes the date or either time,
// which is what triggers re-validation.
func (u ShiftUpdate) TouchesTimes() bool {
	return u.Date != nil || u.StartTime != nil || u.EndTime != nil
}

// IsEmpty reports whether the update changes nothing.
func (u ShiftUpdate) IsEmpty() bool {
	return !u.TouchesTimes() && u.Approved == nil
}

// ParseDate parses a YYYY-MM-DD business date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
