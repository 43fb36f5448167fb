package attendance

import "github.com/hrkit/attendance-engine/internal/pkg/civil"

// CheckInRequest carries the caller-supplied fields for a check-in.
// Location and DeviceInfo are stored opaquely on the record.
type CheckInRequest struct {
	EmployeeID string
	Location   *string
	DeviceInfo *string
}

// CheckInResult reports the outcome of a successful check-in.
type CheckInResult struct {
	Status      Status
	IsLate      bool
	CheckInTime civil.TimeOfDay
}

// CheckOutRequest carries the caller-supplied fields for a check-out.
type CheckOutRequest struct {
	EmployeeID string
}

// CheckOutResult reports the outcome of a successful check-out.
type CheckOutResult struct {
	Status       Status
	WorkHours    float64
	CheckOutTime civil.TimeOfDay
}

// ProvisionResult summarizes one provisioning pass.
type ProvisionResult struct {
	Created  int
	Existing int
	Failed   int
}

// ReconcileDateResult summarizes one absence-marking pass over a date.
// Failed counts records that could not be read or written; they are
// retried on the next scheduled pass.
type ReconcileDateResult struct {
	Date           civil.Date
	MarkedAbsent   int
	SkippedNoShift int
	SkippedNew     int
	Failed         int
}

// BackfillDayResult is the per-date outcome of a multi-day sweep. Error is
// set when the whole date's batch failed; other dates proceed regardless.
type BackfillDayResult struct {
	Result ReconcileDateResult
	Error  string
}

// BackfillResult summarizes a multi-day reconciliation sweep.
type BackfillResult struct {
	TotalMarked int
	PerDay      []BackfillDayResult
}

// ProjectionKind selects the status written by the leave/WFH projector.
type ProjectionKind string

const (
	ProjectLeave ProjectionKind = "on_leave"
	ProjectWFH   ProjectionKind = "wfh"
)

// TargetStatus maps the projection kind to the record status it writes.
// The second return is false for an unrecognized kind.
func (k ProjectionKind) TargetStatus() (Status, bool) {
	switch k {
	case ProjectLeave:
		return StatusOnLeave, true
	case ProjectWFH:
		return StatusWFH, true
	}
	return "", false
}

// ProjectionResult summarizes one projection over a date range.
type ProjectionResult struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}
