package domain

// SlotStatus is the display status of a slot in the weekly grid.
type SlotStatus string

const (
	SlotApproved SlotStatus = "approved"
	SlotPending  SlotStatus = "pending"
)

// WeeklySchedule is the weekly grid for one Sunday-first week.
type WeeklySchedule struct {
	WeekStart  string         `json:"week_start"`
	WeekEnd    string         `json:"week_end"`
	Days       []DayLabel     `json:"days"`
	RangeLabel string         `json:"range_label"`
	Employees  []EmployeeWeek `json:"employees"`
}

// DayLabel names one column of the weekly grid.
type DayLabel struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Label   string `json:"label"`
}

// EmployeeWeek is one row of the grid. Days are in first-seen order.
type EmployeeWeek struct {
	EmployeeID  string     `json:"employee_id"`
	Name        string     `json:"name"`
	CategoryTag string     `json:"category_tag"`
	Corporation string     `json:"corporation,omitempty"`
	Days        []DaySlots `json:"days"`
}

// DaySlots groups the slots an employee has on one date.
type DaySlots struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Slot is a single shift as shown in a grid cell.
type Slot struct {
	ShiftID   string     `json:"shift_id"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	Status    SlotStatus `json:"status"`
}

// Reporting hour ranges for the staffing view.
const (
	SummaryFirstHour  = 3
	SummaryLastHour   = 23
	EmployeeFirstHour = 0
	EmployeeLastHour  = 23
)

// DayStaffing is the per-hour staffing picture for one date.
type DayStaffing struct {
	Date      string          `json:"date"`
	Summary   []HourHeadcount `json:"summary"`
	Employees []EmployeeHours `json:"employees"`
}

// HourHeadcount counts the employees on shift at the top of an hour.
type HourHeadcount struct {
	Hour      int      `json:"hour"`
	Headcount int      `json:"headcount"`
	Employees []string `json:"employees"`
}

// EmployeeHours is one employee's coverage for each hour of the day.
type EmployeeHours struct {
	EmployeeID  string         `json:"employee_id"`
	Name        string         `json:"name"`
	CategoryTag string         `json:"category_tag"`
	HasShift    bool           `json:"has_shift"`
	Hours       []HourCoverage `json:"hours"`
}

// HourCoverage is the fraction of an hour an employee works, 0 to 1.
type HourCoverage struct {
	Hour         int     `json:"hour"`
	Working      bool    `json:"working"`
	ShiftID      string  `json:"shift_id,omitempty"`
	StartTime    string  `json:"start_time,omitempty"`
	EndTime      string  `json:"end_time,omitempty"`
	WorkingRatio float64 `json:"working_ratio"`
}
