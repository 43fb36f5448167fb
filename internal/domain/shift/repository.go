package shift

import "context"

// Catalog is a read-only lookup of shift definitions.
type Catalog interface {
	// ShiftForEmployee returns the employee's assigned shift, or
	// (nil, nil) when none is assigned.
	ShiftForEmployee(ctx context.Context, employeeID string) (*Shift, error)
}
