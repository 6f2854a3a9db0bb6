package tracker

import "errors"

// Domain errors for the tracker package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, tracker.ErrTrackerNotFound) {
//	    // handle not found case
//	}
var (
	// ErrTrackerNotFound is returned when a tracker ID does not exist.
	ErrTrackerNotFound = errors.New("tracker: not found")

	// ErrTrackerExists is returned when registering a tracker with an ID that already exists.
	ErrTrackerExists = errors.New("tracker: already exists")

	// ErrInvalidTrackerID is returned when a tracker ID is empty or malformed.
	ErrInvalidTrackerID = errors.New("tracker: invalid id")

	// ErrInvalidLockState is returned when a lock state value is not "locked" or "unlocked".
	ErrInvalidLockState = errors.New("tracker: invalid lock state")

	// ErrInvalidUser is returned when linking a tracker to a user with missing details.
	ErrInvalidUser = errors.New("tracker: invalid user details")

	// ErrPublishFailed is returned when a lock command could not be delivered
	// to the broker. The desired state is already persisted when this occurs.
	ErrPublishFailed = errors.New("tracker: command publish failed")
)
