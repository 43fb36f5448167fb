package leave

import (
	"time"

	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

// Kind distinguishes leave requests from work-from-home requests.
type Kind string

const (
	KindLeave Kind = "leave"
	KindWFH   Kind = "wfh"
)

// RequestStatus is the approval state of a request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Request is a leave or WFH request over an inclusive date range. The
// engine only consumes it as the trigger for attendance projection;
// balance accounting lives elsewhere.
type Request struct {
	ID              string
	EmployeeID      string
	Kind            Kind
	StartDate       civil.Date
	EndDate         civil.Date
	Status          RequestStatus
	Reason          string
	RejectionReason *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
