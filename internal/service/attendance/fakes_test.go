package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/domain/employee"
	"github.com/hrkit/attendance-engine/internal/domain/shift"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

type memStore struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	nextID  int

	getErr    error
	createErr error
	updateErr error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]attendance.Attendance)}
}

func storeKey(employeeID string, date civil.Date) string {
	return employeeID + "|" + date.String()
}

func (s *memStore) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return attendance.Attendance{}, s.createErr
	}

	key := storeKey(att.EmployeeID, att.Date)
	if _, ok := s.records[key]; ok {
		return attendance.Attendance{}, attendance.ErrDuplicateRecord
	}
	if att.ID == "" {
		s.nextID++
		att.ID = fmt.Sprintf("att-%d", s.nextID)
	}
	s.records[key] = att
	return att, nil
}

func (s *memStore) GetByEmployeeAndDate(ctx context.Context, employeeID string, date civil.Date) (*attendance.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}

	att, ok := s.records[storeKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	copied := att
	return &copied, nil
}

func (s *memStore) Update(ctx context.Context, att attendance.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}

	key := storeKey(att.EmployeeID, att.Date)
	if _, ok := s.records[key]; !ok {
		return attendance.ErrRecordNotFound
	}
	s.records[key] = att
	return nil
}

func (s *memStore) ListPendingByDate(ctx context.Context, date civil.Date) ([]attendance.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}

	var out []attendance.Attendance
	for _, att := range s.records {
		if att.Date == date && att.Status == attendance.StatusPending {
			out = append(out, att)
		}
	}
	return out, nil
}

func (s *memStore) mustGet(employeeID string, date civil.Date) attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	att, ok := s.records[storeKey(employeeID, date)]
	if !ok {
		panic("record not found: " + storeKey(employeeID, date))
	}
	return att
}

func (s *memStore) put(att attendance.Attendance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if att.ID == "" {
		s.nextID++
		att.ID = fmt.Sprintf("att-%d", s.nextID)
	}
	s.records[storeKey(att.EmployeeID, att.Date)] = att
}

type memCatalog struct {
	mu     sync.Mutex
	shifts map[string]*shift.Shift
	err    error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{shifts: make(map[string]*shift.Shift)}
}

func (c *memCatalog) ShiftForEmployee(ctx context.Context, employeeID string) (*shift.Shift, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.shifts[employeeID], nil
}

func (c *memCatalog) assign(employeeID string, sh *shift.Shift) {
	c.mu.Lock()
	c.shifts[employeeID] = sh
	c.mu.Unlock()
}

type memEmployees struct {
	employees []employee.Employee
	err       error
}

func (r *memEmployees) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.employees {
		if r.employees[i].ID == id {
			return &r.employees[i], nil
		}
	}
	return nil, nil
}

func (r *memEmployees) ListActiveWithShift(ctx context.Context) ([]employee.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.Active && emp.HasShift() {
			out = append(out, emp)
		}
	}
	return out, nil
}

func dayShift() *shift.Shift {
	return &shift.Shift{
		ID:        "shift-day",
		Category:  shift.CategoryDay,
		StartTime: civil.TimeOfDay{Hour: 9},
		EndTime:   civil.TimeOfDay{Hour: 18},
	}
}

func nightShift() *shift.Shift {
	return &shift.Shift{
		ID:        "shift-night",
		Category:  shift.CategoryNight,
		StartTime: civil.TimeOfDay{Hour: 22},
		EndTime:   civil.TimeOfDay{Hour: 6},
	}
}

func timeOfDay(hour, minute int) civil.TimeOfDay {
	return civil.TimeOfDay{Hour: hour, Minute: minute}
}

func at(date civil.Date, hour, minute int) time.Time {
	return time.Date(date.Year, date.Month, date.Day, hour, minute, 0, 0, time.UTC)
}
