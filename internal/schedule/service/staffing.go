package service

import (
	"context"
	"math"
	"sort"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// StaffingAggregator computes hourly headcount and per-employee coverage for one date
type StaffingAggregator struct {
	shifts    ShiftStore
	employees EmployeeStore
	logger    *logger.Logger
}

// NewStaffingAggregator creates a new staffing aggregator
func NewStaffingAggregator(shifts ShiftStore, employees EmployeeStore, log *logger.Logger) *StaffingAggregator {
	return &StaffingAggregator{
		shifts:    shifts,
		employees: employees,
		logger:    log.WithComponent("staffing-aggregator"),
	}
}

// span is a shift in wall-clock minutes of its date. Overnight shifts run past 1440.
type span struct {
	shift *domain.Shift
	start int
	end   int
}

func spanOf(sh *domain.Shift) (span, bool) {
	s, okStart := domain.ParseClock(sh.StartTime)
	e, okEnd := domain.ParseClock(sh.EndTime)
	if !okStart || !okEnd {
		return span{}, false
	}
	sp := span{shift: sh, start: s.Minutes(), end: e.Minutes()}
	if sp.end <= sp.start {
		sp.end += domain.MinutesPerDay
	}
	return sp, true
}

// Day returns staffing for date. The summary covers hours 3 to 23 and counts a
// shift at the top of each hour it is running. Per-employee rows cover every
// hour with the fraction worked, rounded to two decimals. Employees with a
// shift sort first, then by name.
func (a *StaffingAggregator) Day(ctx context.Context, date string) (*domain.DayStaffing, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, errors.Validation(map[string]string{"date": "must be a date in YYYY-MM-DD form"})
	}

	shifts, err := a.shifts.Find(ctx, domain.ShiftFilter{Date: date})
	if err != nil {
		return nil, err
	}
	emps, err := a.employees.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}

	known := make(map[string]*domain.Employee, len(emps))
	for i := range emps {
		known[emps[i].ID] = &emps[i]
	}

	spans := make(map[string][]span)
	for i := range shifts {
		sh := &shifts[i]
		if _, ok := known[sh.EmployeeID]; !ok {
			continue
		}
		sp, ok := spanOf(sh)
		if !ok {
			a.logger.Debug().Str("shift_id", sh.ID).Msg("skipping shift with unparseable times")
			continue
		}
		spans[sh.EmployeeID] = append(spans[sh.EmployeeID], sp)
	}

	out := &domain.DayStaffing{
		Date:      date,
		Summary:   summarize(emps, spans),
		Employees: make([]domain.EmployeeHours, 0, len(emps)),
	}

	for i := range emps {
		emp := &emps[i]
		empSpans := spans[emp.ID]
		if emp.DeletedAt != nil && len(empSpans) == 0 {
			continue
		}
		out.Employees = append(out.Employees, domain.EmployeeHours{
			EmployeeID:  emp.ID,
			Name:        emp.Name,
			CategoryTag: emp.CategoryTag,
			HasShift:    len(empSpans) > 0,
			Hours:       hourlyCoverage(empSpans),
		})
	}

	sort.SliceStable(out.Employees, func(i, j int) bool {
		x, y := out.Employees[i], out.Employees[j]
		if x.HasShift != y.HasShift {
			return x.HasShift
		}
		if x.Name != y.Name {
			return x.Name < y.Name
		}
		return x.EmployeeID < y.EmployeeID
	})

	return out, nil
}

// summarize counts, for each reporting hour, the employees whose shift covers
// the first minute of that hour.
func summarize(emps []domain.Employee, spans map[string][]span) []domain.HourHeadcount {
	summary := make([]domain.HourHeadcount, 0, domain.SummaryLastHour-domain.SummaryFirstHour+1)
	for h := domain.SummaryFirstHour; h <= domain.SummaryLastHour; h++ {
		minute := h * 60
		row := domain.HourHeadcount{Hour: h, Employees: []string{}}
		for i := range emps {
			for _, sp := range spans[emps[i].ID] {
				if sp.start <= minute && minute < sp.end {
					row.Employees = append(row.Employees, emps[i].Name)
					break
				}
			}
		}
		row.Headcount = len(row.Employees)
		summary = append(summary, row)
	}
	return summary
}

func hourlyCoverage(spans []span) []domain.HourCoverage {
	hours := make([]domain.HourCoverage, 0, domain.EmployeeLastHour-domain.EmployeeFirstHour+1)
	for h := domain.EmployeeFirstHour; h <= domain.EmployeeLastHour; h++ {
		hourStart, hourEnd := h*60, (h+1)*60
		cov := domain.HourCoverage{Hour: h}

		for _, sp := range spans {
			worked := min(sp.end, hourEnd) - max(sp.start, hourStart)
			if worked <= 0 {
				continue
			}
			cov.Working = true
			cov.ShiftID = sp.shift.ID
			cov.StartTime = sp.shift.StartTime
			cov.EndTime = sp.shift.EndTime
			cov.WorkingRatio = math.Round(float64(worked)/60*100) / 100
			break
		}

		hours = append(hours, cov)
	}
	return hours
}
