//go:build integration

package repository_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/repository"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx, repository.Schema)
	if err != nil {
		log.Fatalf("failed to create integration suite: %v", err)
	}

	code := m.Run()
	_ = suite.Cleanup(ctx)
	os.Exit(code)
}

func resetTables(t *testing.T, ctx context.Context) {
	t.Helper()
	require.NoError(t, suite.Truncate(ctx, "shift_entries", "employees", "corporations"))
}

func seedCorporation(t *testing.T, ctx context.Context, c domain.Corporation) {
	t.Helper()
	_, err := suite.DB.ExecContext(ctx,
		`INSERT INTO corporations (id, name, business_day_start_hour, business_day_end_hour) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.BusinessDayStartHour, c.BusinessDayEndHour,
	)
	require.NoError(t, err)
}

func seedEmployee(t *testing.T, ctx context.Context, e domain.Employee) {
	t.Helper()
	_, err := suite.DB.ExecContext(ctx,
		`INSERT INTO employees (id, name, category_tag, corporation_id, corporation_name, deleted_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Name, e.CategoryTag, e.CorporationID, e.CorporationName, e.DeletedAt,
	)
	require.NoError(t, err)
}

func TestIntegration_ShiftLifecycle(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	corp := suite.Fixtures.Corporation(testutil.WithHours(20, 4))
	seedCorporation(t, ctx, corp)
	emp := suite.Fixtures.Employee(testutil.InCorporation(corp))
	seedEmployee(t, ctx, emp)

	repo := repository.NewShiftRepository(suite.DB)

	first := suite.Fixtures.Shift(emp, "2024-03-04", "20:00", "23:00")
	require.NoError(t, repo.Insert(ctx, &first))
	second := suite.Fixtures.Shift(emp, "2024-03-04", "23:00", "03:00")
	require.NoError(t, repo.Insert(ctx, &second))
	other := suite.Fixtures.Shift(emp, "2024-03-05", "21:00", "02:00")
	require.NoError(t, repo.Insert(ctx, &other))

	day, err := repo.Find(ctx, domain.ShiftFilter{EmployeeID: emp.ID, Date: "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, first.ID, day[0].ID)
	assert.Equal(t, "2024-03-04", day[0].Date)

	week, err := repo.Find(ctx, domain.ShiftFilter{From: "2024-03-03", To: "2024-03-09"})
	require.NoError(t, err)
	assert.Len(t, week, 3)

	updated, err := repo.UpdateByID(ctx, second.ID, domain.ShiftUpdate{Approved: testutil.PtrBool(true)})
	require.NoError(t, err)
	assert.True(t, updated.Approved)
	assert.Equal(t, "03:00", updated.EndTime)

	deleted, err := repo.DeleteByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, first.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestIntegration_InsertUnknownEmployee(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	repo := repository.NewShiftRepository(suite.DB)
	ghost := suite.Fixtures.Employee()

	shift := suite.Fixtures.Shift(ghost, "2024-03-04", "09:00", "12:00")
	err := repo.Insert(ctx, &shift)
	assert.True(t, errors.IsNotFound(err))
}

func TestIntegration_ReplaceDayIsAtomic(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	emp := suite.Fixtures.Employee()
	seedEmployee(t, ctx, emp)
	repo := repository.NewShiftRepository(suite.DB)

	old := suite.Fixtures.Shift(emp, "2024-03-04", "09:00", "12:00")
	require.NoError(t, repo.Insert(ctx, &old))

	// the second row violates the time format check, so nothing may change
	bad := []*domain.Shift{
		{EmployeeID: emp.ID, Date: "2024-03-04", StartTime: "13:00", EndTime: "15:00"},
		{EmployeeID: emp.ID, Date: "2024-03-04", StartTime: "9", EndTime: "15:00"},
	}
	_, err := repo.ReplaceDay(ctx, emp.ID, "2024-03-04", bad)
	require.Error(t, err)

	day, err := repo.Find(ctx, domain.ShiftFilter{EmployeeID: emp.ID, Date: "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, old.ID, day[0].ID)

	good := []*domain.Shift{
		{EmployeeID: emp.ID, Date: "2024-03-04", StartTime: "13:00", EndTime: "15:00"},
		{EmployeeID: emp.ID, Date: "2024-03-04", StartTime: "16:00", EndTime: "18:00"},
	}
	removed, err := repo.ReplaceDay(ctx, emp.ID, "2024-03-04", good)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	day, err = repo.Find(ctx, domain.ShiftFilter{EmployeeID: emp.ID, Date: "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "13:00", day[0].StartTime)
}

func TestIntegration_Directory(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	corp := suite.Fixtures.Corporation(testutil.WithCorporationName("Harbour Cafe"))
	seedCorporation(t, ctx, corp)

	active := suite.Fixtures.Employee(testutil.WithEmployeeName("Alice"), testutil.InCorporation(corp))
	legacy := suite.Fixtures.Employee(testutil.WithEmployeeName("Bob"), testutil.WithLegacyCorporation("Harbour Cafe"))
	gone := suite.Fixtures.Employee(testutil.WithEmployeeName("Carl"), testutil.Deleted())
	for _, e := range []domain.Employee{active, legacy, gone} {
		seedEmployee(t, ctx, e)
	}

	employees := repository.NewEmployeeRepository(suite.DB)
	corporations := repository.NewCorporationRepository(suite.DB)

	all, err := employees.FindAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	current, err := employees.FindAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, current, 2)
	assert.Equal(t, "Alice", current[0].Name)

	got, err := employees.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)

	byName, err := corporations.FindByName(ctx, legacy.CorporationKey())
	require.NoError(t, err)
	assert.Equal(t, corp.ID, byName.ID)

	byID, err := corporations.FindByID(ctx, active.CorporationKey())
	require.NoError(t, err)
	assert.Equal(t, 8, byID.Window().StartHour)
	assert.Equal(t, 24, byID.Window().EndHour)
}
