package motion

import (
	"context"
	"errors"
	"time"

	"github.com/argus-iot/argus-core/internal/tracker"
)

// LockStateSource answers lock state lookups. Satisfied by
// tracker.Repository and tracker.Service.
type LockStateSource interface {
	FetchLockState(ctx context.Context, trackerID string) (tracker.LockState, error)
}

// Notifier emits motion alerts. Satisfied by notification.Service.
type Notifier interface {
	MotionDetected(ctx context.Context, trackerID string) error
}

// Telemetry receives motion events for time-series storage. Satisfied by
// influxdb.Client.
type Telemetry interface {
	WriteMotionEvent(trackerID string, detected bool, timestamp time.Time)
}

// Logger is the minimal logging interface the processor needs.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Processor records motion events and raises alerts for motion on locked
// trackers.
//
// Every event is persisted first; alerting is best-effort on top of that.
// Motion on an unlocked tracker is expected activity and never alerts.
type Processor struct {
	repo      Repository
	locks     LockStateSource
	notifier  Notifier
	telemetry Telemetry
	logger    Logger
}

// NewProcessor creates a motion processor. notifier, telemetry and logger
// may be nil.
func NewProcessor(repo Repository, locks LockStateSource, notifier Notifier, telemetry Telemetry, logger Logger) *Processor {
	return &Processor{
		repo:      repo,
		locks:     locks,
		notifier:  notifier,
		telemetry: telemetry,
		logger:    logger,
	}
}

// RecordMotion persists a motion event and, when the sensor tripped on a
// locked tracker, emits a MotionDetected notification.
//
// The event is stored unconditionally, even for trackers the fleet does
// not know: a sensor reading is evidence and dropping it because the
// registry lags would hide exactly the events worth investigating.
func (p *Processor) RecordMotion(ctx context.Context, trackerID string, detected bool, timestamp time.Time) (*Motion, error) {
	if trackerID == "" {
		return nil, ErrInvalidTrackerID
	}

	m := &Motion{
		TrackerID:      trackerID,
		MotionDetected: detected,
		Timestamp:      timestamp,
	}
	if err := p.repo.Add(ctx, m); err != nil {
		return nil, err
	}

	if p.telemetry != nil {
		p.telemetry.WriteMotionEvent(trackerID, detected, m.Timestamp)
	}

	if !detected {
		return m, nil
	}

	state, err := p.locks.FetchLockState(ctx, trackerID)
	if err != nil {
		if errors.Is(err, tracker.ErrTrackerNotFound) {
			if p.logger != nil {
				p.logger.Warn("motion event for unknown tracker, stored without alert",
					"tracker_id", trackerID,
				)
			}
			return m, nil
		}
		return m, err
	}

	if state != tracker.LockStateLocked {
		return m, nil
	}

	if p.notifier != nil {
		if err := p.notifier.MotionDetected(ctx, trackerID); err != nil {
			if p.logger != nil {
				p.logger.Error("motion notification failed",
					"tracker_id", trackerID,
					"error", err,
				)
			}
		}
	}

	return m, nil
}

// History returns recent motion events for a tracker, newest first.
func (p *Processor) History(ctx context.Context, trackerID string, limit int) ([]Motion, error) {
	return p.repo.ListByTracker(ctx, trackerID, limit)
}
