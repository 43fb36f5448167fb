// Package app wires the attendance engine together. The exported fields
// are the surface a surrounding service embeds: real-time check-in/out,
// leave approval, and the scheduled reconciliation jobs.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrkit/attendance-engine/internal/config"
	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/domain/leave"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/hrkit/attendance-engine/internal/pkg/cron"
	"github.com/hrkit/attendance-engine/internal/pkg/database"
	"github.com/hrkit/attendance-engine/internal/pkg/keylock"
	"github.com/hrkit/attendance-engine/internal/repository/postgresql"
	attendanceService "github.com/hrkit/attendance-engine/internal/service/attendance"
	leaveService "github.com/hrkit/attendance-engine/internal/service/leave"
)

type App struct {
	Attendance  attendance.Service
	Provisioner attendance.Provisioner
	Reconciler  attendance.Reconciler
	Projector   attendance.Projector
	Leave       leave.Service

	db        *database.DB
	jobs      *cron.AttendanceJobs
	scheduler *cron.Scheduler
	logger    *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}
	clock := civil.NewZoneClock(loc)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftCatalog := postgresql.NewShiftCatalog(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	locks := keylock.New()
	cutoffPolicy := attendanceService.NewCutoffPolicy(cfg.Attendance.CutoffOffset)

	provisioner := attendanceService.NewDailyRecordProvisioner(
		attendanceRepo, employeeRepo, clock, cfg.Attendance.StoreTimeout, logger)
	reconciler := attendanceService.NewAbsenceReconciler(
		attendanceRepo, shiftCatalog, clock, cutoffPolicy, locks,
		cfg.Attendance.GraceWindow, cfg.Attendance.StoreTimeout, logger)
	projector := attendanceService.NewLeaveWfhProjector(
		attendanceRepo, clock, locks, cfg.Attendance.StoreTimeout, logger)
	processor := attendanceService.NewCheckInOutProcessor(
		attendanceRepo, shiftCatalog, clock, locks,
		cfg.Attendance.HalfDayHours, cfg.Attendance.FullDayHours,
		cfg.Attendance.StoreTimeout, logger)
	transact := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, db, fn)
	}
	requests := leaveService.NewRequestService(
		leaveRequestRepo, projector, transact, clock, cfg.Attendance.StoreTimeout, logger)

	jobs := cron.NewAttendanceJobs(
		provisioner, reconciler, clock,
		cfg.Attendance.ProvisionDelay,
		cfg.Attendance.CheckpointTimes,
		cfg.Attendance.FinalPassTime,
		cfg.Attendance.BackfillDays,
		cfg.Attendance.BackfillInterval,
		logger,
	)

	scheduler := cron.NewScheduler(logger)
	jobs.RegisterJobs(scheduler)

	return &App{
		Attendance:  processor,
		Provisioner: provisioner,
		Reconciler:  reconciler,
		Projector:   projector,
		Leave:       requests,
		db:          db,
		jobs:        jobs,
		scheduler:   scheduler,
		logger:      logger,
	}, nil
}

// Start runs the downtime-recovery tasks and launches the scheduler.
func (a *App) Start(ctx context.Context) {
	if err := a.jobs.RunStartupTasks(ctx); err != nil {
		// The periodic jobs cover the same ground; log and keep going.
		a.logger.Error("startup tasks failed", "error", err)
	}
	a.scheduler.Start(ctx)
}

// Stop shuts the scheduler down and closes the database pool.
func (a *App) Stop() {
	a.scheduler.Stop()
	a.db.Close()
}
