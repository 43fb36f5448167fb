package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrNoShiftAssigned  = errors.New("employee has no shift assigned")
	ErrAlreadyCheckedIn = errors.New("employee has already checked in today")
	ErrAlreadyAbsent    = errors.New("employee is already marked absent for today")

	// Check-out errors
	ErrNoCheckIn         = errors.New("employee has not checked in yet")
	ErrAlreadyCheckedOut = errors.New("employee has already checked out today")

	// Validation errors
	ErrFutureDate       = errors.New("target date is in the future")
	ErrInvalidDateRange = errors.New("end date is before start date")
	ErrInvalidStatus    = errors.New("invalid target status")

	// General errors
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrDuplicateRecord = errors.New("attendance record already exists for this date")
)
