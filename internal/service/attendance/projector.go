package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/hrkit/attendance-engine/internal/pkg/keylock"
)

// LeaveWfhProjector materializes an approved leave or WFH span onto the
// attendance records of each covered day. Days the employee already worked
// keep their earned status; only pending and absent records are overwritten,
// and missing records are created outright.
type LeaveWfhProjector struct {
	store        attendance.Repository
	clock        civil.Clock
	locks        *keylock.KeyedMutex
	storeTimeout time.Duration
	logger       *slog.Logger
}

func NewLeaveWfhProjector(
	store attendance.Repository,
	clock civil.Clock,
	locks *keylock.KeyedMutex,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *LeaveWfhProjector {
	return &LeaveWfhProjector{
		store:        store,
		clock:        clock,
		locks:        locks,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

func (p *LeaveWfhProjector) Project(ctx context.Context, employeeID string, start, end civil.Date, kind attendance.ProjectionKind) (attendance.ProjectionResult, error) {
	result := attendance.ProjectionResult{}

	if end.Before(start) {
		return result, fmt.Errorf("%w: %s after %s", attendance.ErrInvalidDateRange, start, end)
	}
	target, ok := kind.TargetStatus()
	if !ok {
		return result, fmt.Errorf("%w: projection kind %q", attendance.ErrInvalidStatus, kind)
	}

	for date := start; !date.After(end); date = date.AddDays(1) {
		outcome, err := p.projectDay(ctx, employeeID, date, target)
		if err != nil {
			result.Failed++
			p.logger.Error("failed to project day",
				"employee_id", employeeID, "date", date.String(), "target", string(target), "error", err)
			continue
		}
		switch outcome {
		case projectionCreated:
			result.Created++
		case projectionUpdated:
			result.Updated++
		default:
			result.Skipped++
		}
	}

	p.logger.Info("projected span onto attendance",
		"employee_id", employeeID,
		"start", start.String(),
		"end", end.String(),
		"target", string(target),
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

type projectionOutcome int

const (
	projectionSkipped projectionOutcome = iota
	projectionCreated
	projectionUpdated
)

func (p *LeaveWfhProjector) projectDay(ctx context.Context, employeeID string, date civil.Date, target attendance.Status) (projectionOutcome, error) {
	key := lockKey(employeeID, date)
	p.locks.Lock(key)
	defer p.locks.Unlock(key)

	storeCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()

	now := p.clock.Now()

	record, err := p.store.GetByEmployeeAndDate(storeCtx, employeeID, date)
	if err != nil {
		return projectionSkipped, fmt.Errorf("load record: %w", err)
	}

	if record == nil {
		fresh := attendance.Attendance{
			EmployeeID: employeeID,
			Date:       date,
			Status:     target,
			IsOnWFH:    target == attendance.StatusWFH,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := p.store.Create(storeCtx, fresh); err != nil {
			if errors.Is(err, attendance.ErrDuplicateRecord) {
				// Lost a race with the provisioner; fall back to the
				// overwrite path on the record it created.
				return p.overwrite(storeCtx, employeeID, date, target, now)
			}
			return projectionSkipped, fmt.Errorf("create record: %w", err)
		}
		return projectionCreated, nil
	}

	return p.overwriteRecord(storeCtx, record, target, now)
}

func (p *LeaveWfhProjector) overwrite(ctx context.Context, employeeID string, date civil.Date, target attendance.Status, now time.Time) (projectionOutcome, error) {
	record, err := p.store.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return projectionSkipped, fmt.Errorf("reload record: %w", err)
	}
	if record == nil {
		return projectionSkipped, attendance.ErrRecordNotFound
	}
	return p.overwriteRecord(ctx, record, target, now)
}

func (p *LeaveWfhProjector) overwriteRecord(ctx context.Context, record *attendance.Attendance, target attendance.Status, now time.Time) (projectionOutcome, error) {
	if record.Status != attendance.StatusPending && record.Status != attendance.StatusAbsent {
		return projectionSkipped, nil
	}

	record.Status = target
	if target == attendance.StatusWFH {
		record.IsOnWFH = true
	}
	record.UpdatedAt = now
	if err := p.store.Update(ctx, *record); err != nil {
		return projectionSkipped, fmt.Errorf("update record: %w", err)
	}
	return projectionUpdated, nil
}
