package employee

import "context"

// Repository defines the employee lookups the engine needs.
type Repository interface {
	// GetByID returns the employee, or (nil, nil) when not found.
	GetByID(ctx context.Context, id string) (*Employee, error)

	// ListActiveWithShift returns every active employee with an assigned
	// shift, the provisioning population.
	ListActiveWithShift(ctx context.Context) ([]Employee, error)
}
