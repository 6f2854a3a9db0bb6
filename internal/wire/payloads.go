package wire

import (
	"encoding/json"
	"fmt"
	"time"
)

// LockCommand is published by the core on {trackerId}/lockStateUpdate to
// request a lock state change. State is "locked" or "unlocked".
type LockCommand struct {
	State string `json:"state"`
}

// Ack is published by a tracker on {trackerId}/ack after applying (or
// re-reporting) its lock state.
type Ack struct {
	State string `json:"state"`
}

// MotionEvent is published by a tracker on {trackerId}/motion when its
// motion sensor changes state.
type MotionEvent struct {
	MotionDetected bool      `json:"motionDetected"`
	Timestamp      time.Time `json:"timestamp"`
}

// LocationUpdate is published by a tracker on {trackerId}/location with a
// GPS fix.
type LocationUpdate struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// LockStatus is published on {trackerId}/lockStatus by a lock attached to
// a tracker, reporting its own status independently of the tracker's
// lock state.
type LockStatus struct {
	LockID string `json:"lockId"`
	Status string `json:"status"`
}

// EncodeLockCommand marshals a lock command for publishing.
func EncodeLockCommand(state string) ([]byte, error) {
	payload, err := json.Marshal(LockCommand{State: state})
	if err != nil {
		return nil, fmt.Errorf("wire: encode lock command: %w", err)
	}
	return payload, nil
}

// DecodeAck unmarshals an acknowledgement payload.
func DecodeAck(payload []byte) (Ack, error) {
	var ack Ack
	if err := json.Unmarshal(payload, &ack); err != nil {
		return Ack{}, fmt.Errorf("wire: decode ack: %w", err)
	}
	return ack, nil
}

// DecodeMotionEvent unmarshals a motion event payload. A missing timestamp
// is filled with the current time so downstream consumers always get one.
func DecodeMotionEvent(payload []byte) (MotionEvent, error) {
	var ev MotionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return MotionEvent{}, fmt.Errorf("wire: decode motion event: %w", err)
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	return ev, nil
}

// DecodeLocationUpdate unmarshals a location payload. A missing timestamp
// is filled with the current time.
func DecodeLocationUpdate(payload []byte) (LocationUpdate, error) {
	var loc LocationUpdate
	if err := json.Unmarshal(payload, &loc); err != nil {
		return LocationUpdate{}, fmt.Errorf("wire: decode location update: %w", err)
	}
	if loc.Timestamp.IsZero() {
		loc.Timestamp = time.Now().UTC()
	}
	return loc, nil
}

// DecodeLockStatus unmarshals a lock status payload.
func DecodeLockStatus(payload []byte) (LockStatus, error) {
	var status LockStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return LockStatus{}, fmt.Errorf("wire: decode lock status: %w", err)
	}
	return status, nil
}
