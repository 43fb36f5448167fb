package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/domain/employee"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

// DailyRecordProvisioner creates the day's pending record for every active
// employee with an assigned shift. Provisioning is idempotent: an existing
// record for (employee, today) is counted, never replaced.
type DailyRecordProvisioner struct {
	store        attendance.Repository
	employees    employee.Repository
	clock        civil.Clock
	storeTimeout time.Duration
	logger       *slog.Logger
}

func NewDailyRecordProvisioner(
	store attendance.Repository,
	employees employee.Repository,
	clock civil.Clock,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *DailyRecordProvisioner {
	return &DailyRecordProvisioner{
		store:        store,
		employees:    employees,
		clock:        clock,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

func (p *DailyRecordProvisioner) ProvisionForToday(ctx context.Context) (attendance.ProvisionResult, error) {
	result := attendance.ProvisionResult{}

	now := p.clock.Now()
	today := civil.DateOf(now)

	listCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	employees, err := p.employees.ListActiveWithShift(listCtx)
	cancel()
	if err != nil {
		return result, fmt.Errorf("list active employees: %w", err)
	}

	for _, emp := range employees {
		created, err := p.provisionOne(ctx, emp.ID, today, now)
		switch {
		case errors.Is(err, attendance.ErrDuplicateRecord):
			result.Existing++
		case err != nil:
			result.Failed++
			p.logger.Error("failed to provision attendance record",
				"employee_id", emp.ID, "date", today.String(), "error", err)
		case created:
			result.Created++
		default:
			result.Existing++
		}
	}

	p.logger.Info("provisioned daily attendance records",
		"date", today.String(),
		"created", result.Created,
		"existing", result.Existing,
		"failed", result.Failed,
	)

	return result, nil
}

func (p *DailyRecordProvisioner) provisionOne(ctx context.Context, employeeID string, today civil.Date, now time.Time) (bool, error) {
	storeCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()

	existing, err := p.store.GetByEmployeeAndDate(storeCtx, employeeID, today)
	if err != nil {
		return false, fmt.Errorf("check existing record: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	record := attendance.Attendance{
		EmployeeID: employeeID,
		Date:       today,
		Status:     attendance.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := p.store.Create(storeCtx, record); err != nil {
		return false, fmt.Errorf("create record: %w", err)
	}
	return true, nil
}
