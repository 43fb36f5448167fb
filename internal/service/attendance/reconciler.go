package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/domain/shift"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/hrkit/attendance-engine/internal/pkg/keylock"
)

// AbsenceReconciler walks the pending records of a date and marks as absent
// the ones whose shift cutoff has passed. Marking is monotonic: only pending
// records without a check-in are ever touched, so a record that became
// present, on leave or wfh in the meantime is left alone.
type AbsenceReconciler struct {
	store        attendance.Repository
	shifts       shift.Catalog
	clock        civil.Clock
	policy       *CutoffPolicy
	locks        *keylock.KeyedMutex
	grace        time.Duration
	storeTimeout time.Duration
	logger       *slog.Logger
}

func NewAbsenceReconciler(
	store attendance.Repository,
	shifts shift.Catalog,
	clock civil.Clock,
	policy *CutoffPolicy,
	locks *keylock.KeyedMutex,
	grace time.Duration,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *AbsenceReconciler {
	return &AbsenceReconciler{
		store:        store,
		shifts:       shifts,
		clock:        clock,
		policy:       policy,
		locks:        locks,
		grace:        grace,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// ReconcileDate processes every pending record of the given date. Past dates
// are marked unconditionally; for today the per-shift cutoff decides. With
// skipNew set, records younger than the grace window are left for a later
// pass so a freshly provisioned record is never marked absent immediately.
func (r *AbsenceReconciler) ReconcileDate(ctx context.Context, date civil.Date, skipNew bool) (attendance.ReconcileDateResult, error) {
	result := attendance.ReconcileDateResult{Date: date}

	now := r.clock.Now()
	today := civil.DateOf(now)
	if date.After(today) {
		return result, fmt.Errorf("%w: %s", attendance.ErrFutureDate, date)
	}

	records, err := r.listPending(ctx, date)
	if err != nil {
		return result, fmt.Errorf("list pending records for %s: %w", date, err)
	}

	for _, record := range records {
		if record.HasCheckedIn() {
			continue
		}

		sh, err := r.shiftFor(ctx, record.EmployeeID)
		if err != nil {
			result.Failed++
			r.logger.Error("shift lookup failed during reconciliation",
				"employee_id", record.EmployeeID, "date", date.String(), "error", err)
			continue
		}
		if sh == nil {
			result.SkippedNoShift++
			continue
		}

		if skipNew && r.withinGrace(record, now) {
			result.SkippedNew++
			continue
		}

		if date == today && !r.policy.Reached(sh, civil.TimeOf(now)) {
			continue
		}

		marked, err := r.markAbsent(ctx, record, now)
		if err != nil {
			result.Failed++
			r.logger.Error("failed to mark record absent",
				"employee_id", record.EmployeeID, "date", date.String(), "error", err)
			continue
		}
		if marked {
			result.MarkedAbsent++
		}
	}

	r.logger.Info("reconciled attendance date",
		"date", date.String(),
		"marked_absent", result.MarkedAbsent,
		"skipped_no_shift", result.SkippedNoShift,
		"skipped_new", result.SkippedNew,
		"failed", result.Failed,
	)

	return result, nil
}

// ReconcileBackfill reconciles today plus daysBack prior days. Only today's
// pass skips fresh records; for past dates the grace window is irrelevant
// because their cutoffs are long gone. A failing date does not stop the
// sweep; the returned error is reserved for cancellation, when the partial
// result is returned alongside it.
func (r *AbsenceReconciler) ReconcileBackfill(ctx context.Context, daysBack int) (attendance.BackfillResult, error) {
	result := attendance.BackfillResult{}

	today := civil.Today(r.clock)
	for offset := 0; offset <= daysBack; offset++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("backfill interrupted: %w", err)
		}

		date := today.AddDays(-offset)
		skipNew := offset == 0

		day := attendance.BackfillDayResult{}
		dayResult, err := r.ReconcileDate(ctx, date, skipNew)
		day.Result = dayResult
		if err != nil {
			day.Error = err.Error()
			r.logger.Error("backfill pass failed for date", "date", date.String(), "error", err)
		} else {
			result.TotalMarked += dayResult.MarkedAbsent
		}
		result.PerDay = append(result.PerDay, day)
	}

	return result, nil
}

// withinGrace reports whether the record was provisioned within the grace
// window. A record stamped in the future (clock skew between writers) counts
// as new rather than instantly eligible for absence.
func (r *AbsenceReconciler) withinGrace(record attendance.Attendance, now time.Time) bool {
	age := now.Sub(record.CreatedAt)
	return age < r.grace
}

// markAbsent re-reads the record under its key lock and transitions it only
// if it is still pending without a check-in. Returns false when a concurrent
// writer got there first.
func (r *AbsenceReconciler) markAbsent(ctx context.Context, record attendance.Attendance, now time.Time) (bool, error) {
	key := lockKey(record.EmployeeID, record.Date)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)

	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	fresh, err := r.store.GetByEmployeeAndDate(storeCtx, record.EmployeeID, record.Date)
	if err != nil {
		return false, fmt.Errorf("reload record: %w", err)
	}
	if fresh == nil || fresh.Status != attendance.StatusPending || fresh.HasCheckedIn() {
		return false, nil
	}

	fresh.Status = attendance.StatusAbsent
	fresh.UpdatedAt = now
	if err := r.store.Update(storeCtx, *fresh); err != nil {
		return false, fmt.Errorf("update record: %w", err)
	}
	return true, nil
}

func (r *AbsenceReconciler) listPending(ctx context.Context, date civil.Date) ([]attendance.Attendance, error) {
	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()
	return r.store.ListPendingByDate(storeCtx, date)
}

func (r *AbsenceReconciler) shiftFor(ctx context.Context, employeeID string) (*shift.Shift, error) {
	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()
	return r.shifts.ShiftForEmployee(storeCtx, employeeID)
}

func lockKey(employeeID string, date civil.Date) string {
	return employeeID + "|" + date.String()
}
