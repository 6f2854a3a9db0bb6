package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteLocationPoint records a GPS fix for a tracker.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - trackerID: Unique identifier for the tracker
//   - latitude: Latitude in decimal degrees
//   - longitude: Longitude in decimal degrees
//   - timestamp: When the fix was taken
func (c *Client) WriteLocationPoint(trackerID string, latitude, longitude float64, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"location",
		map[string]string{
			"tracker_id": trackerID,
		},
		map[string]interface{}{
			"latitude":  latitude,
			"longitude": longitude,
		},
		timestamp,
	)

	c.writeAPI.WritePoint(point)
}

// WriteMotionEvent records a motion sensor reading for a tracker.
//
// Parameters:
//   - trackerID: Tracker identifier
//   - detected: Whether motion was detected
//   - timestamp: When the sensor reading was taken
func (c *Client) WriteMotionEvent(trackerID string, detected bool, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	detectedVal := 0.0
	if detected {
		detectedVal = 1.0
	}

	point := write.NewPoint(
		"motion",
		map[string]string{
			"tracker_id": trackerID,
		},
		map[string]interface{}{
			"detected": detectedVal,
		},
		timestamp,
	)

	c.writeAPI.WritePoint(point)
}

// WriteLockStateChange records a confirmed lock state transition.
//
// Used for auditing how often trackers change state and how long
// device acknowledgements take to arrive.
//
// Parameters:
//   - trackerID: Tracker identifier
//   - state: The confirmed lock state ("locked" or "unlocked")
func (c *Client) WriteLockStateChange(trackerID string, state string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"lock_state",
		map[string]string{
			"tracker_id": trackerID,
			"state":      state,
		},
		map[string]interface{}{
			"changed": 1.0,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
