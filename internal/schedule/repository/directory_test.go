package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/repository"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	employeeCols    = []string{"id", "name", "category_tag", "corporation_id", "corporation_name", "deleted_at"}
	corporationCols = []string{"id", "name", "business_day_start_hour", "business_day_end_hour"}
)

func TestEmployeeRepository_FindByID(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewEmployeeRepository(mockDB.Database())
	id, corpID := uuid.NewString(), uuid.NewString()

	mockDB.ExpectQuery("FROM employees WHERE id = $1").
		WithArgs(id).
		WillReturnRows(testutil.MockRows(employeeCols...).AddRow(id, "Alice", "barista", corpID, nil, nil))

	emp, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", emp.Name)
	assert.Equal(t, corpID, emp.CorporationKey())
	assert.Nil(t, emp.DeletedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewEmployeeRepository(mockDB.Database())
	id := uuid.NewString()

	mockDB.ExpectQuery("FROM employees WHERE id = $1").
		WithArgs(id).
		WillReturnRows(testutil.MockRows(employeeCols...))

	_, err := repo.FindByID(context.Background(), id)
	assert.True(t, errors.IsNotFound(err))

	_, err = repo.FindByID(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))

	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_FindAll(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewEmployeeRepository(mockDB.Database())

	mockDB.ExpectQuery("FROM employees WHERE deleted_at IS NULL ORDER BY name, id").
		WillReturnRows(testutil.MockRows(employeeCols...).
			AddRow(uuid.NewString(), "Alice", "barista", nil, "Harbour Cafe", nil).
			AddRow(uuid.NewString(), "Bob", "kitchen", nil, nil, nil))
	mockDB.ExpectQuery("FROM employees ORDER BY name, id").
		WillReturnRows(testutil.MockRows(employeeCols...))

	emps, err := repo.FindAll(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, emps, 2)
	assert.Equal(t, "Harbour Cafe", emps[0].CorporationKey())
	assert.Equal(t, "", emps[1].CorporationKey())

	emps, err = repo.FindAll(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, emps)

	mockDB.ExpectationsWereMet(t)
}

func TestCorporationRepository(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewCorporationRepository(mockDB.Database())
	id := uuid.NewString()

	mockDB.ExpectQuery("FROM corporations WHERE id = $1").
		WithArgs(id).
		WillReturnRows(testutil.MockRows(corporationCols...).AddRow(id, "Night Cafe", 20, 4))
	mockDB.ExpectQuery("FROM corporations WHERE name = $1").
		WithArgs("Day Bakery").
		WillReturnRows(testutil.MockRows(corporationCols...).AddRow(uuid.NewString(), "Day Bakery", nil, nil))
	mockDB.ExpectQuery("FROM corporations WHERE name = $1").
		WithArgs("Gone").
		WillReturnRows(testutil.MockRows(corporationCols...))

	night, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	w := night.Window()
	assert.Equal(t, 20, w.StartHour)
	assert.Equal(t, 28, w.EndHour)

	bakery, err := repo.FindByName(context.Background(), "Day Bakery")
	require.NoError(t, err)
	assert.Nil(t, bakery.BusinessDayStartHour)
	assert.Equal(t, 8, bakery.Window().StartHour)
	assert.Equal(t, 24, bakery.Window().EndHour)

	_, err = repo.FindByName(context.Background(), "Gone")
	assert.True(t, errors.IsNotFound(err))

	// legacy names passed as ids are rejected without a query
	_, err = repo.FindByID(context.Background(), "Night Cafe")
	assert.True(t, errors.IsNotFound(err))

	mockDB.ExpectationsWereMet(t)
}
