package employee

// Employee carries the two fields the attendance core needs (active flag
// and shift assignment); everything else is passed through untouched.
type Employee struct {
	ID       string
	FullName string
	Active   bool
	ShiftID  *string
}

// HasShift reports whether the employee has a shift assigned.
func (e *Employee) HasShift() bool {
	return e.ShiftID != nil && *e.ShiftID != ""
}
