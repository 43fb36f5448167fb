package attendance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvisioner(store *memStore, employees *memEmployees, clock *fakeClock) *DailyRecordProvisioner {
	return NewDailyRecordProvisioner(store, employees, clock, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func activeEmployee(id string) employee.Employee {
	shiftID := "shift-day"
	return employee.Employee{ID: id, FullName: "Employee " + id, Active: true, ShiftID: &shiftID}
}

func TestProvisionForToday_CreatesPendingRecords(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	employees := &memEmployees{employees: []employee.Employee{
		activeEmployee("emp-1"),
		activeEmployee("emp-2"),
	}}
	clock := newFakeClock(at(testDate, 0, 1))

	result, err := newTestProvisioner(store, employees, clock).ProvisionForToday(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Existing)

	rec := store.mustGet("emp-1", testDate)
	assert.Equal(t, attendance.StatusPending, rec.Status)
	assert.Nil(t, rec.CheckInTime)
	assert.NotEmpty(t, rec.ID)
}

func TestProvisionForToday_Idempotent(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	employees := &memEmployees{employees: []employee.Employee{activeEmployee("emp-1")}}
	clock := newFakeClock(at(testDate, 0, 1))

	provisioner := newTestProvisioner(store, employees, clock)

	first, err := provisioner.ProvisionForToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := provisioner.ProvisionForToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Existing)
}

func TestProvisionForToday_KeepsExistingState(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	employees := &memEmployees{employees: []employee.Employee{activeEmployee("emp-1")}}
	clock := newFakeClock(at(testDate, 8, 0))

	// Employee already checked in before a redundant provisioning run.
	store.put(checkedInRecord("emp-1", testDate, // 07:30 arrival
		timeOfDay(7, 30), false))

	result, err := newTestProvisioner(store, employees, clock).ProvisionForToday(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Existing)
	assert.Equal(t, attendance.StatusPresent, store.mustGet("emp-1", testDate).Status)
}

func TestProvisionForToday_ListFailureIsFatal(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	employees := &memEmployees{err: context.DeadlineExceeded}
	clock := newFakeClock(at(testDate, 0, 1))

	_, err := newTestProvisioner(store, employees, clock).ProvisionForToday(context.Background())
	assert.Error(t, err)
}

func TestProvisionForToday_PerEmployeeFailureIsolated(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	employees := &memEmployees{employees: []employee.Employee{activeEmployee("emp-1")}}
	clock := newFakeClock(at(testDate, 0, 1))
	store.createErr = context.DeadlineExceeded

	result, err := newTestProvisioner(store, employees, clock).ProvisionForToday(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Failed)
}
