package notification

import "time"

// Type classifies a notification.
type Type string

const (
	// TypeLockStateChanged is emitted when a tracker acknowledges a new lock state.
	TypeLockStateChanged Type = "LockStateChanged"

	// TypeMotionDetected is emitted when motion trips on a locked tracker.
	TypeMotionDetected Type = "MotionDetected"
)

// Notification is a user-facing event record.
//
// ID is a UUID assigned at creation. TrackerID names the tracker the
// event concerns.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	TrackerID string    `json:"trackerId"`
	Timestamp time.Time `json:"timestamp"`
}
