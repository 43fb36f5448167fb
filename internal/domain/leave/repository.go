package leave

import "context"

// Repository defines data access for leave/WFH requests.
type Repository interface {
	// GetByID returns the request or ErrRequestNotFound.
	GetByID(ctx context.Context, id string) (Request, error)

	// Update persists status and approval fields of an existing request.
	Update(ctx context.Context, req Request) error
}

// Service approves or rejects requests; approval triggers the attendance
// projection for the request's date range.
type Service interface {
	Approve(ctx context.Context, requestID, approverID string) (Request, error)
	Reject(ctx context.Context, requestID, approverID, reason string) (Request, error)
}
