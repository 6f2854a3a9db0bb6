package location

import (
	"fmt"
	"time"
)

// Location is a single GPS fix reported by a tracker.
type Location struct {
	ID        int64     `json:"id"`
	TrackerID string    `json:"trackerId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the fix is geographically possible.
func (l *Location) Validate() error {
	if l.TrackerID == "" {
		return ErrInvalidTrackerID
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinates, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinates, l.Longitude)
	}
	return nil
}
