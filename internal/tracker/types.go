package tracker

import (
	"fmt"
	"strings"
	"time"
)

// LockState represents the lock state of a tracker. Persisted values are
// always lowercase; parsing is case-insensitive.
type LockState string

const (
	// LockStateLocked means the tracker's lock is engaged.
	LockStateLocked LockState = "locked"

	// LockStateUnlocked means the tracker's lock is released.
	LockStateUnlocked LockState = "unlocked"
)

// ParseLockState normalises a lock state value. Input is matched
// case-insensitively and the canonical lowercase form is returned.
// Returns ErrInvalidLockState for anything else.
func ParseLockState(s string) (LockState, error) {
	switch LockState(strings.ToLower(s)) {
	case LockStateLocked:
		return LockStateLocked, nil
	case LockStateUnlocked:
		return LockStateUnlocked, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLockState, s)
	}
}

// Tracker is a fleet device carrying a controllable lock.
//
// LockState is the last state the device acknowledged; DesiredLockState is
// the last state requested through the core. The two diverge while a
// command is in flight (or lost), which is what NeedsSync reports.
type Tracker struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            *string    `json:"email,omitempty"`
	FirebaseUID      *string    `json:"firebaseUid,omitempty"`
	LockState        LockState  `json:"lockState"`
	DesiredLockState LockState  `json:"desiredLockState"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastUpdated      time.Time  `json:"lastUpdated"`
}

// NeedsSync reports whether the device's acknowledged state lags the
// desired state.
func (t *Tracker) NeedsSync() bool {
	return t.LockState != t.DesiredLockState
}

// Validate checks the tracker's fields before persistence.
func (t *Tracker) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrInvalidTrackerID
	}
	if strings.Contains(t.ID, "/") {
		return fmt.Errorf("%w: id must not contain '/'", ErrInvalidTrackerID)
	}
	if _, err := ParseLockState(string(t.LockState)); err != nil {
		return err
	}
	if _, err := ParseLockState(string(t.DesiredLockState)); err != nil {
		return err
	}
	return nil
}
