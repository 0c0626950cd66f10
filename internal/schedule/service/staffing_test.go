package service_test

import (
	"context"
	"testing"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/service"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
	"github.com/shiftboard/shiftboard-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaffing(store *testutil.MemoryStore) *service.StaffingAggregator {
	return service.NewStaffingAggregator(store, store, logger.Nop())
}

func hoursOf(t *testing.T, staffing *domain.DayStaffing, employeeID string) []domain.HourCoverage {
	t.Helper()
	for _, e := range staffing.Employees {
		if e.EmployeeID == employeeID {
			require.Len(t, e.Hours, 24)
			return e.Hours
		}
	}
	t.Fatalf("employee %s not in staffing view", employeeID)
	return nil
}

func TestDay_FractionalCoverage(t *testing.T) {
	store := testutil.NewMemoryStore()
	f := testutil.NewFixtureFactory()
	emp := f.Employee()
	store.AddEmployee(emp)
	seeded := store.Seed(f.Shift(emp, day, "09:00", "09:30"))

	staffing, err := newStaffing(store).Day(context.Background(), day)
	require.NoError(t, err)

	hours := hoursOf(t, staffing, emp.ID)
	assert.Equal(t, 0.5, hours[9].WorkingRatio)
	assert.True(t, hours[9].Working)
	assert.Equal(t, seeded[0].ID, hours[9].ShiftID)
	assert.Equal(t, 0.0, hours[8].WorkingRatio)
	assert.False(t, hours[8].Working)
	assert.Equal(t, 0.0, hours[10].WorkingRatio)
}

func TestDay_HourReportsFirstShiftOnly(t *testing.T) {
	store := testutil.NewMemoryStore()
	f := testutil.NewFixtureFactory()
	emp := f.Employee()
	store.AddEmployee(emp)
	seeded := store.Seed(
		f.Shift(emp, day, "09:00", "09:30"),
		f.Shift(emp, day, "09:30", "10:00"),
	)

	staffing, err := newStaffing(store).Day(context.Background(), day)
	require.NoError(t, err)

	hours := hoursOf(t, staffing, emp.ID)
	assert.Equal(t, seeded[0].ID, hours[9].ShiftID)
	assert.Equal(t, "09:30", hours[9].EndTime)
	assert.Equal(t, 0.5, hours[9].WorkingRatio)
}

func TestDay_PartialHoursRounded(t *testing.T) {
	store := testutil.NewMemoryStore()
	f := testutil.NewFixtureFactory()
	a, b := f.Employee(), f.Employee()
	store.AddEmployee(a, b)
	store.Seed(
		f.Shift(a, day, "09:15", "10:45"),
		f.Shift(b, day, "14:00", "14:20"),
	)

	staffing, err := newStaffing(store).Day(context.Background(), day)
	require.NoError(t, err)

	hoursA := hoursOf(t, staffing, a.ID)
	assert.Equal(t, 0.75, hoursA[9].WorkingRatio)
	assert.Equal(t, 0.75, hoursA[10].WorkingRatio)

	hoursB := hoursOf(t, staffing, b.ID)
	assert.Equal(t, 0.33, hoursB[14].WorkingRatio)
}

func TestDay_SummaryHeadcount(t *testing.T) {
	store := testutil.NewMemoryStore()
	f := testutil.NewFixtureFactory()
	alice := f.Employee(testutil.WithEmployeeName("Alice"))
	bob := f.Employee(testutil.WithEmployeeName("Bob"))
	store.AddEmployee(alice, bob)
	store.Seed(
		f.Shift(alice, day, "09:00", "17:00"),
		f.Shift(bob, day, "16:30", "20:00"),
		f.Shift(bob, "2024-03-05", "09:00", "17:00"),
	)

	staffing, err := newStaffing(store).Day(context.Background(), day)
	require.NoError(t, err)

	require.Len(t, staffing.Summary, 21)
	assert.Equal(t, domain.SummaryFirstHour, staffing.Summary[0].Hour)
	assert.Equal(t, domain.SummaryLastHour, staffing.Summary[20].Hour)

	byHour := make(map[int]domain.HourHeadcount)
	for _, row := range staffing.Summary {
		byHour[row.Hour] = row
	}
	assert.Equal(t, 0, byHour[8].Headcount)
	assert.Equal(t, []string{"Alice"}, byHour[9].Employees)
	// Bob starts at 16:30, so he is not on shift at the top of 16:00
	assert.Equal(t, 1, byHour[16].Headcount)
	// Alice ends at 17:00, exclusive
	assert.Equal(t, []string{"Bob"}, byHour[17].Employees)
	assert.Equal(t, 0, byHour[20].Headcount)
}

func TestDay_OvernightShift(t *testing.T) {
	store := testutil.NewMemoryStore()
	f := testutil.NewFixtureFactory()
	emp := f.Employee()
	store.AddEmployee(emp)
	store.Seed(f.Shift(emp, day, "22:30", "02:00"))

	staffing, err := newStaffing(store).Day(context.Background(), day)
	require.NoError(t, err)

	hours := hoursOf(t, staffing, emp.ID)
	assert.Equal(t, 0.5, hours[22].WorkingRatio)
	assert.Equal(t, 1.0, hours[23].WorkingRatio)
	assert.False(t, hours[1].Working)
}

func TestDay_EmployeeOrdering(t *testing.T) {
	store := testutil.NewMemoryStore()
	f := testutil.NewFixtureFactory()
	zed := f.Employee(testutil.WithEmployeeName("Zed"))
	amy := f.Employee(testutil.WithEmployeeName("Amy"))
	bob := f.Employee(testutil.WithEmployeeName("Bob"))
	gone := f.Employee(testutil.WithEmployeeName("Gone"), testutil.Deleted())
	left := f.Employee(testutil.WithEmployeeName("Left"), testutil.Deleted())
	store.AddEmployee(zed, amy, bob, gone, left)
	store.Seed(
		f.Shift(zed, day, "09:00", "10:00"),
		f.Shift(bob, day, "11:00", "12:00"),
		f.Shift(left, day, "08:00", "09:00"),
	)

	staffing, err := newStaffing(store).Day(context.Background(), day)
	require.NoError(t, err)

	var names []string
	for _, e := range staffing.Employees {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Bob", "Left", "Zed", "Amy"}, names)
	assert.True(t, staffing.Employees[0].HasShift)
	assert.False(t, staffing.Employees[3].HasShift)
}

func TestDay_InvalidDate(t *testing.T) {
	_, err := newStaffing(testutil.NewMemoryStore()).Day(context.Background(), "tomorrow")
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
}
