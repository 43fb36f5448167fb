package attendance

import (
	"time"

	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

// Status is the lifecycle state of an attendance record.
type Status string

const (
	StatusPending     Status = "pending"
	StatusPresent     Status = "present"
	StatusLatePresent Status = "late_present"
	StatusHalfDay     Status = "half_day"
	StatusAbsent      Status = "absent"
	StatusOnLeave     Status = "on_leave"
	StatusWFH         Status = "wfh"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPresent, StatusLatePresent, StatusHalfDay,
		StatusAbsent, StatusOnLeave, StatusWFH:
		return true
	}
	return false
}

// Attendance is one record per (employee, calendar date). Location and
// DeviceInfo are opaque free text supplied by the caller.
type Attendance struct {
	ID           string
	EmployeeID   string
	Date         civil.Date
	Status       Status
	CheckInTime  *civil.TimeOfDay
	CheckOutTime *civil.TimeOfDay
	IsLate       bool
	IsOnWFH      bool
	WorkHours    float64
	Location     *string
	DeviceInfo   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasCheckedIn reports whether a check-in time has been recorded.
func (a *Attendance) HasCheckedIn() bool {
	return a.CheckInTime != nil
}

// HasCheckedOut reports whether a check-out time has been recorded.
func (a *Attendance) HasCheckedOut() bool {
	return a.CheckOutTime != nil
}
