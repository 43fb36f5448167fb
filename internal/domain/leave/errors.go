package leave

import "errors"

// Leave domain errors
var (
	ErrRequestNotFound         = errors.New("leave request not found")
	ErrRequestAlreadyProcessed = errors.New("leave request has already been approved or rejected")
)
