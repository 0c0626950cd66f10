package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
)

// MemoryStore is an in-memory shift, employee and corporation store for
// service and handler tests. Shifts are returned in insertion order.
type MemoryStore struct {
	mu           sync.Mutex
	seq          int
	shifts       []domain.Shift
	employees    map[string]domain.Employee
	corporations map[string]domain.Corporation

	// Err, when set, is returned by every shift store call
	Err error
	// CorporationErr, when set, is returned by corporation lookups
	CorporationErr error
	// FindCalls counts Find invocations
	FindCalls int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		employees:    make(map[string]domain.Employee),
		corporations: make(map[string]domain.Corporation),
	}
}

// AddEmployee stores employees
func (m *MemoryStore) AddEmployee(emps ...domain.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range emps {
		m.employees[e.ID] = e
	}
}

// AddCorporation stores corporations
func (m *MemoryStore) AddCorporation(corps ...domain.Corporation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range corps {
		m.corporations[c.ID] = c
	}
}

// Seed inserts shifts directly, bypassing validation, and returns them with ids.
func (m *MemoryStore) Seed(shifts ...domain.Shift) []domain.Shift {
	out := make([]domain.Shift, 0, len(shifts))
	for _, s := range shifts {
		s := s
		_ = m.Insert(context.Background(), &s)
		out = append(out, s)
	}
	return out
}

// Shifts returns every stored shift
func (m *MemoryStore) Shifts() []domain.Shift {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Shift(nil), m.shifts...)
}

// ===== ShiftStore =====

func (m *MemoryStore) Find(_ context.Context, filter domain.ShiftFilter) ([]domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	if m.Err != nil {
		return nil, m.Err
	}

	out := []domain.Shift{}
	for _, s := range m.shifts {
		switch {
		case filter.EmployeeID != "" && s.EmployeeID != filter.EmployeeID:
		case filter.Date != "" && s.Date != filter.Date:
		case filter.From != "" && s.Date < filter.From:
		case filter.To != "" && s.Date > filter.To:
		default:
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, s := range m.shifts {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, errors.NotFound("shift")
}

func (m *MemoryStore) Insert(_ context.Context, shift *domain.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.insertLocked(shift)
	return nil
}

func (m *MemoryStore) insertLocked(shift *domain.Shift) {
	m.seq++
	shift.ID = fmt.Sprintf("shift-%03d", m.seq)
	now := time.Now().UTC()
	shift.CreatedAt, shift.UpdatedAt = now, now
	m.shifts = append(m.shifts, *shift)
}

func (m *MemoryStore) UpdateByID(_ context.Context, id string, upd domain.ShiftUpdate) (*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.shifts {
		s := &m.shifts[i]
		if s.ID != id {
			continue
		}
		if upd.Date != nil {
			s.Date = *upd.Date
		}
		if upd.StartTime != nil {
			s.StartTime = *upd.StartTime
		}
		if upd.EndTime != nil {
			s.EndTime = *upd.EndTime
		}
		if upd.Approved != nil {
			s.Approved = *upd.Approved
		}
		s.UpdatedAt = time.Now().UTC()
		out := *s
		return &out, nil
	}
	return nil, errors.NotFound("shift")
}

func (m *MemoryStore) DeleteByID(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for i, s := range m.shifts {
		if s.ID == id {
			m.shifts = append(m.shifts[:i], m.shifts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) DeleteMany(_ context.Context, employeeID, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.deleteDayLocked(employeeID, date), nil
}

func (m *MemoryStore) deleteDayLocked(employeeID, date string) int64 {
	kept := m.shifts[:0]
	var removed int64
	for _, s := range m.shifts {
		if s.EmployeeID == employeeID && s.Date == date {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	m.shifts = kept
	return removed
}

func (m *MemoryStore) ReplaceDay(_ context.Context, employeeID, date string, shifts []*domain.Shift) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	removed := m.deleteDayLocked(employeeID, date)
	for _, s := range shifts {
		m.insertLocked(s)
	}
	return removed, nil
}

// ===== EmployeeStore =====

func (m *MemoryStore) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, errors.NotFound("employee")
	}
	return &e, nil
}

func (m *MemoryStore) FindAll(_ context.Context, excludeDeleted bool) ([]domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if excludeDeleted && e.DeletedAt != nil {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Corporations exposes the corporation half of the store, whose FindByID
// would otherwise collide with the employee lookup.
func (m *MemoryStore) Corporations() *MemoryCorporations {
	return &MemoryCorporations{m: m}
}

// MemoryCorporations is the CorporationStore view of a MemoryStore
type MemoryCorporations struct {
	m *MemoryStore
}

func (c *MemoryCorporations) FindByID(_ context.Context, id string) (*domain.Corporation, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.m.CorporationErr != nil {
		return nil, c.m.CorporationErr
	}
	corp, ok := c.m.corporations[id]
	if !ok {
		return nil, errors.NotFound("corporation")
	}
	return &corp, nil
}

func (c *MemoryCorporations) FindByName(_ context.Context, name string) (*domain.Corporation, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.m.CorporationErr != nil {
		return nil, c.m.CorporationErr
	}
	for _, corp := range c.m.corporations {
		if corp.Name == name {
			corp := corp
			return &corp, nil
		}
	}
	return nil, errors.NotFound("corporation")
}
