package lock

import (
	"fmt"
	"strings"
	"time"
)

// Status represents a lock's own reported status, independent of the
// lock state of the tracker it is attached to. Persisted values are
// lowercase; parsing is case-insensitive.
type Status string

const (
	// StatusLocked means the lock reports itself engaged.
	StatusLocked Status = "locked"

	// StatusUnlocked means the lock reports itself released.
	StatusUnlocked Status = "unlocked"
)

// ParseStatus normalises a lock status value.
// Returns ErrInvalidStatus for anything other than locked/unlocked.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusLocked:
		return StatusLocked, nil
	case StatusUnlocked:
		return StatusUnlocked, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Lock is a physical lock attached to a tracker. A tracker can carry
// several locks; each reports status on the tracker's lockStatus topic.
type Lock struct {
	ID          string    `json:"id"`
	TrackerID   string    `json:"trackerId"`
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// New creates a lock with the default status. A new lock registers as
// locked until it reports otherwise.
func New(id, trackerID, name string) *Lock {
	if strings.TrimSpace(name) == "" {
		name = id
	}
	return &Lock{
		ID:        id,
		TrackerID: trackerID,
		Name:      name,
		Status:    StatusLocked,
	}
}

// Validate checks the lock's fields before persistence.
func (l *Lock) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return ErrInvalidLockID
	}
	if strings.TrimSpace(l.TrackerID) == "" {
		return fmt.Errorf("%w: tracker id is required", ErrInvalidLockID)
	}
	if _, err := ParseStatus(string(l.Status)); err != nil {
		return err
	}
	return nil
}
