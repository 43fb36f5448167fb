package attendance

import (
	"context"

	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

// Repository defines data access for attendance records. There is exactly
// one record per (employee, date); the store enforces this with a unique
// constraint and reports violations as ErrDuplicateRecord.
type Repository interface {
	// Create inserts a new record and returns it with ID and timestamps set.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByEmployeeAndDate returns the record for the compound key, or
	// (nil, nil) when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date civil.Date) (*Attendance, error)

	// Update persists the mutable fields of an existing record.
	Update(ctx context.Context, att Attendance) error

	// ListPendingByDate returns all records for date still in pending status.
	ListPendingByDate(ctx context.Context, date civil.Date) ([]Attendance, error)
}
