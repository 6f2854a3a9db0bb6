package motion

import "errors"

// Domain errors for the motion package.
var (
	// ErrInvalidTrackerID is returned when a motion event names no tracker.
	ErrInvalidTrackerID = errors.New("motion: invalid tracker id")
)
