package attendance

import (
	"context"

	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

// Service defines the real-time check-in/check-out operations.
type Service interface {
	// CheckIn records a check-in for today, deciding present/late/wfh.
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResult, error)

	// CheckOut records a check-out for today and derives worked hours
	// and the final status.
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResult, error)
}

// Provisioner ensures one pending record per active employee per day.
type Provisioner interface {
	ProvisionForToday(ctx context.Context) (ProvisionResult, error)
}

// Reconciler transitions pending records to absent under the cutoff rules.
type Reconciler interface {
	// ReconcileDate applies absence marking to every pending,
	// not-checked-in record for the date. Dates after today are rejected
	// with ErrFutureDate.
	ReconcileDate(ctx context.Context, date civil.Date, skipNewRecords bool) (ReconcileDateResult, error)

	// ReconcileBackfill runs ReconcileDate for today and each of the
	// prior daysBack days. The grace-period skip applies only to today.
	ReconcileBackfill(ctx context.Context, daysBack int) (BackfillResult, error)
}

// Projector retroactively rewrites attendance for an approved leave or
// work-from-home span.
type Projector interface {
	Project(ctx context.Context, employeeID string, start, end civil.Date, kind ProjectionKind) (ProjectionResult, error)
}
