package lock

import "errors"

// Domain errors for the lock package.
var (
	// ErrLockNotFound is returned when a lock ID does not exist.
	ErrLockNotFound = errors.New("lock: not found")

	// ErrLockExists is returned when registering a lock with an ID that already exists.
	ErrLockExists = errors.New("lock: already exists")

	// ErrInvalidLockID is returned when a lock ID or tracker reference is missing.
	ErrInvalidLockID = errors.New("lock: invalid id")

	// ErrInvalidStatus is returned when a status value is not "locked" or "unlocked".
	ErrInvalidStatus = errors.New("lock: invalid status")
)
