package domain

import "time"

// Employee is read from the staff directory. Only the fields scheduling needs
// are mapped.
type Employee struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	CategoryTag string `db:"category_tag" json:"category_tag"`
	// CorporationID is the direct reference. CorporationName is the legacy
	// free-text field kept for records created before the reference existed.
	CorporationID   *string    `db:"corporation_id" json:"corporation_id,omitempty"`
	CorporationName *string    `db:"corporation_name" json:"corporation_name,omitempty"`
	DeletedAt       *time.Time `db:"deleted_at" json:"-"`
}

// CorporationKey returns the id when set, else the legacy name, else "".
func (e *Employee) CorporationKey() string {
	if e.CorporationID != nil && *e.CorporationID != "" {
		return *e.CorporationID
	}
	if e.CorporationName != nil {
		return *e.CorporationName
	}
	return ""
}

// Corporation carries the operating hours used to build a BusinessWindow.
type Corporation struct {
	ID                   string `db:"id" json:"id"`
	Name                 string `db:"name" json:"name"`
	BusinessDayStartHour *int   `db:"business_day_start_hour" json:"business_day_start_hour,omitempty"`
	BusinessDayEndHour   *int   `db:"business_day_end_hour" json:"business_day_end_hour,omitempty"`
}

// Window returns the corporation's normalized business window.
func (c *Corporation) Window() BusinessWindow {
	return WindowFromHours(c.BusinessDayStartHour, c.BusinessDayEndHour)
}
