package location

import "errors"

// Domain errors for the location package.
var (
	// ErrInvalidTrackerID is returned when a location fix names no tracker.
	ErrInvalidTrackerID = errors.New("location: invalid tracker id")

	// ErrInvalidCoordinates is returned when latitude or longitude is out of range.
	ErrInvalidCoordinates = errors.New("location: invalid coordinates")
)
