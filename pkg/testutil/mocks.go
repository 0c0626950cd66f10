package testutil

import (
	"context"
	"database/sql/driver"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shiftboard/shiftboard-backend/pkg/database"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// MockDB wraps sqlmock for repository unit tests.
//
// Usage:
//
//	mockDB := testutil.NewMockDB(t)
//	repo := repository.NewShiftRepository(mockDB.Database())
//	mockDB.ExpectQuery("FROM shift_entries").WillReturnRows(...)
type MockDB struct {
	DB   *sqlx.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB creates a mock database that is closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	m := &MockDB{
		DB:   sqlx.NewDb(db, "postgres"),
		Mock: mock,
	}
	t.Cleanup(func() { _ = m.DB.Close() })
	return m
}

// Database returns the mock as the application's *database.DB
func (m *MockDB) Database() *database.DB {
	return database.Wrap(m.DB, logger.Nop())
}

// ExpectQuery expects a query containing the literal fragment
func (m *MockDB) ExpectQuery(fragment string) *sqlmock.ExpectedQuery {
	return m.Mock.ExpectQuery(regexp.QuoteMeta(fragment))
}

// ExpectExec expects an exec containing the literal fragment
func (m *MockDB) ExpectExec(fragment string) *sqlmock.ExpectedExec {
	return m.Mock.ExpectExec(regexp.QuoteMeta(fragment))
}

// ExpectBegin sets up an expected transaction begin
func (m *MockDB) ExpectBegin() *sqlmock.ExpectedBegin {
	return m.Mock.ExpectBegin()
}

// ExpectCommit sets up an expected commit
func (m *MockDB) ExpectCommit() *sqlmock.ExpectedCommit {
	return m.Mock.ExpectCommit()
}

// ExpectRollback sets up an expected rollback
func (m *MockDB) ExpectRollback() *sqlmock.ExpectedRollback {
	return m.Mock.ExpectRollback()
}

// ExpectationsWereMet verifies all expectations were met
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// MockRows creates a new mock rows object
func MockRows(columns ...string) *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

// AnyTime matches any time.Time argument
type AnyTime struct{}

// Match satisfies the sqlmock.Argument interface
func (a AnyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

// AnyUUID matches any UUID string argument
type AnyUUID struct{}

// Match satisfies the sqlmock.Argument interface
func (a AnyUUID) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// MockPublisher records published events instead of sending them.
// It satisfies the publisher interface the schedule event layer depends on.
type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	// Err, when set, is returned from every Publish call
	Err error
}

// PublishedEvent represents an event that was published
type PublishedEvent struct {
	Type    string
	Payload interface{}
}

// NewMockPublisher creates a new mock publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records an event for later verification
func (m *MockPublisher) Publish(_ context.Context, eventType string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{
		Type:    eventType,
		Payload: payload,
	})
	return m.Err
}

// Events returns a copy of the recorded events
func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.PublishedEvents...)
}

// Types returns the recorded event types in publish order
func (m *MockPublisher) Types() []string {
	events := m.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

// AssertEventPublished checks if an event of the given type was published
func (m *MockPublisher) AssertEventPublished(t *testing.T, eventType string) {
	t.Helper()
	for _, e := range m.Events() {
		if e.Type == eventType {
			return
		}
	}
	t.Errorf("expected event %q to be published, got %v", eventType, m.Types())
}

// AssertNoEventsPublished checks that no events were published
func (m *MockPublisher) AssertNoEventsPublished(t *testing.T) {
	t.Helper()
	if events := m.Events(); len(events) > 0 {
		t.Errorf("expected no events, but got %d: %v", len(events), m.Types())
	}
}

// Reset clears all published events
func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = nil
}
