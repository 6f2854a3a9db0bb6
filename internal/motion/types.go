package motion

import "time"

// Motion is a single motion sensor event reported by a tracker.
//
// ID is assigned by the database on insert. Events are append-only and
// removed only when their tracker is deleted from the fleet.
type Motion struct {
	ID             int64     `json:"id"`
	TrackerID      string    `json:"trackerId"`
	MotionDetected bool      `json:"motionDetected"`
	Timestamp      time.Time `json:"timestamp"`
}
