package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/domain/shift"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/hrkit/attendance-engine/internal/pkg/keylock"
)

// CheckInOutProcessor handles the real-time check-in and check-out events
// for today's record. Both operations run under the record's key lock so
// they serialize against the reconciler and the projector.
type CheckInOutProcessor struct {
	store        attendance.Repository
	shifts       shift.Catalog
	clock        civil.Clock
	locks        *keylock.KeyedMutex
	halfDayHours float64
	fullDayHours float64
	storeTimeout time.Duration
	logger       *slog.Logger
}

func NewCheckInOutProcessor(
	store attendance.Repository,
	shifts shift.Catalog,
	clock civil.Clock,
	locks *keylock.KeyedMutex,
	halfDayHours float64,
	fullDayHours float64,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *CheckInOutProcessor {
	return &CheckInOutProcessor{
		store:        store,
		shifts:       shifts,
		clock:        clock,
		locks:        locks,
		halfDayHours: halfDayHours,
		fullDayHours: fullDayHours,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// CheckIn records the employee's check-in for today. An arrival at or before
// the shift start is on time; anything later sets the late flag. A record
// already marked absent rejects the check-in outright.
func (p *CheckInOutProcessor) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResult, error) {
	now := p.clock.Now()
	today := civil.DateOf(now)
	nowTime := civil.TimeOf(now)

	sh, err := p.shiftFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("resolve shift: %w", err)
	}
	if sh == nil {
		return attendance.CheckInResult{}, attendance.ErrNoShiftAssigned
	}

	key := lockKey(req.EmployeeID, today)
	p.locks.Lock(key)
	defer p.locks.Unlock(key)

	storeCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()

	record, err := p.store.GetByEmployeeAndDate(storeCtx, req.EmployeeID, today)
	if err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("load record: %w", err)
	}
	if record == nil {
		// Provisioner has not run yet; create the record on the spot.
		created, err := p.store.Create(storeCtx, attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       today,
			Status:     attendance.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return attendance.CheckInResult{}, fmt.Errorf("create record: %w", err)
		}
		record = &created
	}

	if record.Status == attendance.StatusAbsent {
		return attendance.CheckInResult{}, attendance.ErrAlreadyAbsent
	}
	if record.HasCheckedIn() {
		return attendance.CheckInResult{}, attendance.ErrAlreadyCheckedIn
	}

	isLate := nowTime.After(sh.StartTime)
	status := attendance.StatusPresent
	if record.IsOnWFH || record.Status == attendance.StatusWFH {
		status = attendance.StatusWFH
	}

	record.CheckInTime = &nowTime
	record.IsLate = isLate
	record.Status = status
	record.UpdatedAt = now
	if req.Location != nil {
		record.Location = req.Location
	}
	if req.DeviceInfo != nil {
		record.DeviceInfo = req.DeviceInfo
	}

	if err := p.store.Update(storeCtx, *record); err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("persist check-in: %w", err)
	}

	p.logger.Info("employee checked in",
		"employee_id", req.EmployeeID, "date", today.String(),
		"status", string(status), "is_late", isLate)

	return attendance.CheckInResult{
		Status:      status,
		IsLate:      isLate,
		CheckInTime: nowTime,
	}, nil
}

// CheckOut records the check-out and settles the day's status from the
// worked hours. A check-out time-of-day numerically below the check-in is
// credited a full extra day to cover overnight shifts.
func (p *CheckInOutProcessor) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResult, error) {
	now := p.clock.Now()
	today := civil.DateOf(now)
	nowTime := civil.TimeOf(now)

	key := lockKey(req.EmployeeID, today)
	p.locks.Lock(key)
	defer p.locks.Unlock(key)

	storeCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()

	record, err := p.store.GetByEmployeeAndDate(storeCtx, req.EmployeeID, today)
	if err != nil {
		return attendance.CheckOutResult{}, fmt.Errorf("load record: %w", err)
	}
	if record == nil || !record.HasCheckedIn() {
		return attendance.CheckOutResult{}, attendance.ErrNoCheckIn
	}
	if record.HasCheckedOut() {
		return attendance.CheckOutResult{}, attendance.ErrAlreadyCheckedOut
	}

	workHours := round2(civil.HoursBetween(*record.CheckInTime, nowTime))

	var status attendance.Status
	switch {
	case workHours < p.halfDayHours:
		status = attendance.StatusAbsent
	case workHours < p.fullDayHours:
		status = attendance.StatusHalfDay
	default:
		status = attendance.StatusPresent
		// A full day worked outweighs a late arrival.
		record.IsLate = false
	}

	record.CheckOutTime = &nowTime
	record.WorkHours = workHours
	record.Status = status
	record.UpdatedAt = now

	if err := p.store.Update(storeCtx, *record); err != nil {
		return attendance.CheckOutResult{}, fmt.Errorf("persist check-out: %w", err)
	}

	p.logger.Info("employee checked out",
		"employee_id", req.EmployeeID, "date", today.String(),
		"status", string(status), "work_hours", workHours)

	return attendance.CheckOutResult{
		Status:       status,
		WorkHours:    workHours,
		CheckOutTime: nowTime,
	}, nil
}

func (p *CheckInOutProcessor) shiftFor(ctx context.Context, employeeID string) (*shift.Shift, error) {
	storeCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()
	return p.shifts.ShiftForEmployee(storeCtx, employeeID)
}

func round2(hours float64) float64 {
	return math.Round(hours*100) / 100
}
