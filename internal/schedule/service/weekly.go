package service

import (
	"context"
	"strings"
	"time"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// Fields the weekly keyword filter can target. An empty field matches any of them.
const (
	FilterFieldName        = "name"
	FilterFieldCategory    = "category_tag"
	FilterFieldCorporation = "corporation"
)

// WeeklyAggregator builds the Sunday-first weekly grid
type WeeklyAggregator struct {
	shifts       ShiftStore
	employees    EmployeeStore
	corporations CorporationStore
	logger       *logger.Logger
}

// NewWeeklyAggregator creates a new weekly aggregator. corporations may be
// nil, in which case only legacy corporation names are shown.
func NewWeeklyAggregator(shifts ShiftStore, employees EmployeeStore, corporations CorporationStore, log *logger.Logger) *WeeklyAggregator {
	return &WeeklyAggregator{
		shifts:       shifts,
		employees:    employees,
		corporations: corporations,
		logger:       log.WithComponent("weekly-aggregator"),
	}
}

// WeekBounds returns the Sunday that starts anchor's week and the Saturday that ends it.
func WeekBounds(anchor time.Time) (time.Time, time.Time) {
	start := anchor.AddDate(0, 0, -int(anchor.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

// Week returns the grid for the week containing anchor. keyword is matched
// case-insensitively as a substring of field, or of every filterable field
// when field is empty. Shifts whose employee is unknown are left out.
func (a *WeeklyAggregator) Week(ctx context.Context, anchor, field, keyword string) (*domain.WeeklySchedule, error) {
	day, err := domain.ParseDate(anchor)
	if err != nil {
		return nil, errors.Validation(map[string]string{"date": "must be a date in YYYY-MM-DD form"})
	}

	field = strings.ToLower(strings.TrimSpace(field))
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	switch field {
	case "", FilterFieldName, FilterFieldCategory, FilterFieldCorporation:
	default:
		return nil, errors.Validation(map[string]string{"field": "must be one of name, category_tag, corporation"})
	}

	start, end := WeekBounds(day)
	sched := &domain.WeeklySchedule{
		WeekStart:  start.Format(domain.DateLayout),
		WeekEnd:    end.Format(domain.DateLayout),
		Days:       dayLabels(start),
		RangeLabel: rangeLabel(start, end),
		Employees:  []domain.EmployeeWeek{},
	}

	shifts, err := a.shifts.Find(ctx, domain.ShiftFilter{From: sched.WeekStart, To: sched.WeekEnd})
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return sched, nil
	}

	emps, err := a.employees.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Employee, len(emps))
	for _, e := range emps {
		byID[e.ID] = e
	}

	corpNames := make(map[string]string)
	rows := make(map[string]int)

	for i := range shifts {
		sh := &shifts[i]
		emp, ok := byID[sh.EmployeeID]
		if !ok {
			continue
		}
		corp := a.corporationName(ctx, &emp, corpNames)

		if keyword != "" && !matchesKeyword(field, keyword, &emp, sh, corp) {
			continue
		}

		idx, seen := rows[emp.ID]
		if !seen {
			sched.Employees = append(sched.Employees, domain.EmployeeWeek{
				EmployeeID:  emp.ID,
				Name:        emp.Name,
				CategoryTag: emp.CategoryTag,
				Corporation: corp,
				Days:        []domain.DaySlots{},
			})
			idx = len(sched.Employees) - 1
			rows[emp.ID] = idx
		}

		addSlot(&sched.Employees[idx], sh)
	}

	return sched, nil
}

// addSlot appends sh under its date, keeping dates in first-seen order.
func addSlot(row *domain.EmployeeWeek, sh *domain.Shift) {
	slot := domain.Slot{
		ShiftID:   sh.ID,
		StartTime: sh.StartTime,
		EndTime:   sh.EndTime,
		Status:    sh.Status(),
	}
	for i := range row.Days {
		if row.Days[i].Date == sh.Date {
			row.Days[i].Slots = append(row.Days[i].Slots, slot)
			return
		}
	}
	row.Days = append(row.Days, domain.DaySlots{Date: sh.Date, Slots: []domain.Slot{slot}})
}

func matchesKeyword(field, keyword string, emp *domain.Employee, sh *domain.Shift, corp string) bool {
	category := sh.EmployeeCategoryTag
	if category == "" {
		category = emp.CategoryTag
	}

	var candidates []string
	switch field {
	case FilterFieldName:
		candidates = []string{emp.Name}
	case FilterFieldCategory:
		candidates = []string{category}
	case FilterFieldCorporation:
		candidates = []string{corp}
	default:
		candidates = []string{emp.Name, category, corp}
	}

	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), keyword) {
			return true
		}
	}
	return false
}

// corporationName prefers the legacy name and otherwise looks the id up once per call.
func (a *WeeklyAggregator) corporationName(ctx context.Context, emp *domain.Employee, cache map[string]string) string {
	if emp.CorporationName != nil && *emp.CorporationName != "" {
		return *emp.CorporationName
	}
	if emp.CorporationID == nil || *emp.CorporationID == "" || a.corporations == nil {
		return ""
	}

	id := *emp.CorporationID
	if name, ok := cache[id]; ok {
		return name
	}

	name := ""
	corp, err := a.corporations.FindByID(ctx, id)
	if err != nil {
		a.logger.Debug().Err(err).Str("corporation_id", id).Msg("corporation name lookup failed")
	} else if corp != nil {
		name = corp.Name
	}
	cache[id] = name
	return name
}

func dayLabels(start time.Time) []domain.DayLabel {
	labels := make([]domain.DayLabel, 7)
	for i := range labels {
		d := start.AddDate(0, 0, i)
		labels[i] = domain.DayLabel{
			Date:    d.Format(domain.DateLayout),
			Weekday: d.Format("Mon"),
			Label:   d.Format("Mon 01/02"),
		}
	}
	return labels
}

// rangeLabel renders "Mar 3 - Mar 9, 2024", repeating the year when the week spans two.
func rangeLabel(start, end time.Time) string {
	if start.Year() == end.Year() {
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	}
	return start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
}
