package location

import (
	"context"
	"time"
)

// Telemetry receives location fixes for time-series storage. Satisfied by
// influxdb.Client.
type Telemetry interface {
	WriteLocationPoint(trackerID string, latitude, longitude float64, timestamp time.Time)
}

// Recorder validates and persists location fixes, mirroring each accepted
// fix to time-series telemetry when configured.
type Recorder struct {
	repo      Repository
	telemetry Telemetry
}

// NewRecorder creates a location recorder. telemetry may be nil.
func NewRecorder(repo Repository, telemetry Telemetry) *Recorder {
	return &Recorder{repo: repo, telemetry: telemetry}
}

// Record validates and stores a location fix.
//
// Out-of-range coordinates are rejected before any write; nothing reaches
// SQLite or InfluxDB for an invalid fix.
func (r *Recorder) Record(ctx context.Context, trackerID string, latitude, longitude float64, timestamp time.Time) (*Location, error) {
	l := &Location{
		TrackerID: trackerID,
		Latitude:  latitude,
		Longitude: longitude,
		Timestamp: timestamp,
	}

	if err := r.repo.Add(ctx, l); err != nil {
		return nil, err
	}

	if r.telemetry != nil {
		r.telemetry.WriteLocationPoint(l.TrackerID, l.Latitude, l.Longitude, l.Timestamp)
	}

	return l, nil
}

// History returns recent fixes for a tracker, newest first.
func (r *Recorder) History(ctx context.Context, trackerID string, limit int) ([]Location, error) {
	return r.repo.ListByTracker(ctx, trackerID, limit)
}

// Latest returns the most recent fix for a tracker, or nil.
func (r *Recorder) Latest(ctx context.Context, trackerID string) (*Location, error) {
	return r.repo.Latest(ctx, trackerID)
}
