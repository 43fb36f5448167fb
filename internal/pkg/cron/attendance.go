package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

const jobTickInterval = 5 * time.Minute

// AttendanceJobs sequences the attendance engine's periodic work:
// provisioning shortly after midnight, cutoff checkpoints through the day,
// a final end-of-day sweep and the multi-day backfill. Every job body is
// idempotent, so the schedule only has to fire each slot at least once.
type AttendanceJobs struct {
	provisioner attendance.Provisioner
	reconciler  attendance.Reconciler
	clock       civil.Clock

	provisionDelay   time.Duration
	checkpoints      []civil.TimeOfDay
	finalPassTime    civil.TimeOfDay
	backfillDays     int
	backfillInterval time.Duration

	logger *slog.Logger

	mu              sync.Mutex
	provisionedOn   civil.Date
	checkpointFired map[civil.TimeOfDay]civil.Date
	finalPassOn     civil.Date
	lastBackfill    time.Time
}

func NewAttendanceJobs(
	provisioner attendance.Provisioner,
	reconciler attendance.Reconciler,
	clock civil.Clock,
	provisionDelay time.Duration,
	checkpoints []civil.TimeOfDay,
	finalPassTime civil.TimeOfDay,
	backfillDays int,
	backfillInterval time.Duration,
	logger *slog.Logger,
) *AttendanceJobs {
	return &AttendanceJobs{
		provisioner:      provisioner,
		reconciler:       reconciler,
		clock:            clock,
		provisionDelay:   provisionDelay,
		checkpoints:      checkpoints,
		finalPassTime:    finalPassTime,
		backfillDays:     backfillDays,
		backfillInterval: backfillInterval,
		logger:           logger,
		checkpointFired:  make(map[civil.TimeOfDay]civil.Date),
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("provision_daily_records", jobTickInterval, j.ProvisionDailyRecords)
	scheduler.AddJob("reconcile_checkpoints", jobTickInterval, j.ReconcileDueCheckpoints)
	scheduler.AddJob("final_absent_pass", jobTickInterval, j.FinalAbsentPass)
	scheduler.AddJob("backfill_sweep", j.backfillInterval, j.BackfillSweep)
}

// RunStartupTasks recovers from downtime: provision today's records, then
// backfill absences over the lookback window.
func (j *AttendanceJobs) RunStartupTasks(ctx context.Context) error {
	j.logger.Info("running startup attendance tasks")

	if _, err := j.provisioner.ProvisionForToday(ctx); err != nil {
		return fmt.Errorf("startup provisioning: %w", err)
	}
	j.markProvisioned(civil.Today(j.clock))

	if _, err := j.reconciler.ReconcileBackfill(ctx, j.backfillDays); err != nil {
		return fmt.Errorf("startup backfill: %w", err)
	}
	j.noteBackfill(j.clock.Now())

	return nil
}

// ProvisionDailyRecords runs the provisioner once per day, any tick after
// local midnight plus the configured delay.
func (j *AttendanceJobs) ProvisionDailyRecords(ctx context.Context) error {
	now := j.clock.Now()
	today := civil.DateOf(now)
	due := civil.TimeOfDay{}.Add(j.provisionDelay)

	if !civil.TimeOf(now).AtOrAfter(due) {
		return nil
	}

	j.mu.Lock()
	done := j.provisionedOn == today
	j.mu.Unlock()
	if done {
		return nil
	}

	if _, err := j.provisioner.ProvisionForToday(ctx); err != nil {
		return err
	}
	j.markProvisioned(today)
	return nil
}

// ReconcileDueCheckpoints fires one grace-protected reconciliation of today
// when any checkpoint time has passed that has not fired yet today. Several
// overdue checkpoints collapse into a single pass.
func (j *AttendanceJobs) ReconcileDueCheckpoints(ctx context.Context) error {
	now := j.clock.Now()
	today := civil.DateOf(now)
	nowTime := civil.TimeOf(now)

	j.mu.Lock()
	var due []civil.TimeOfDay
	for _, cp := range j.checkpoints {
		if nowTime.AtOrAfter(cp) && j.checkpointFired[cp] != today {
			due = append(due, cp)
		}
	}
	j.mu.Unlock()

	if len(due) == 0 {
		return nil
	}

	if _, err := j.reconciler.ReconcileDate(ctx, today, true); err != nil {
		return err
	}

	j.mu.Lock()
	for _, cp := range due {
		j.checkpointFired[cp] = today
	}
	j.mu.Unlock()
	return nil
}

// FinalAbsentPass flushes today's remaining pending records late at night,
// with the grace window disabled.
func (j *AttendanceJobs) FinalAbsentPass(ctx context.Context) error {
	now := j.clock.Now()
	today := civil.DateOf(now)

	if !civil.TimeOf(now).AtOrAfter(j.finalPassTime) {
		return nil
	}

	j.mu.Lock()
	done := j.finalPassOn == today
	j.mu.Unlock()
	if done {
		return nil
	}

	if _, err := j.reconciler.ReconcileDate(ctx, today, false); err != nil {
		return err
	}

	j.mu.Lock()
	j.finalPassOn = today
	j.mu.Unlock()
	return nil
}

// BackfillSweep reconciles the lookback window. The interval guard keeps
// the immediate run-on-start from doubling up with the startup tasks.
func (j *AttendanceJobs) BackfillSweep(ctx context.Context) error {
	now := j.clock.Now()

	j.mu.Lock()
	recent := !j.lastBackfill.IsZero() && now.Sub(j.lastBackfill) < j.backfillInterval
	j.mu.Unlock()
	if recent {
		return nil
	}

	if _, err := j.reconciler.ReconcileBackfill(ctx, j.backfillDays); err != nil {
		return err
	}
	j.noteBackfill(now)
	return nil
}

func (j *AttendanceJobs) markProvisioned(day civil.Date) {
	j.mu.Lock()
	j.provisionedOn = day
	j.mu.Unlock()
}

func (j *AttendanceJobs) noteBackfill(at time.Time) {
	j.mu.Lock()
	j.lastBackfill = at
	j.mu.Unlock()
}
