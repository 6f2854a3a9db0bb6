package tracker

import (
	"context"
	"fmt"

	"github.com/argus-iot/argus-core/internal/wire"
)

// Publisher sends messages to the tracker fleet. Satisfied by mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Notifier emits user-facing notifications for lock state transitions.
// Satisfied by notification.Service.
type Notifier interface {
	LockStateChanged(ctx context.Context, trackerID string, state string) error
}

// Telemetry mirrors confirmed lock state transitions to a time-series
// sink. Satisfied by influxdb.Client.
type Telemetry interface {
	WriteLockStateChange(trackerID string, state string)
}

// Logger is the minimal logging interface the reconciler needs.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Reconciler drives tracker lock state towards the operator's desired
// state.
//
// Desired state is persisted before the command is published, so a lost
// command or broker outage leaves the divergence visible (NeedsSync)
// rather than losing the request. Acknowledged state only changes when the
// device reports it.
type Reconciler struct {
	repo      Repository
	publisher Publisher
	notifier  Notifier
	telemetry Telemetry
	logger    Logger
	qos       byte
}

// NewReconciler creates a reconciler. notifier, telemetry, and logger may
// be nil.
func NewReconciler(repo Repository, publisher Publisher, notifier Notifier, telemetry Telemetry, logger Logger, qos byte) *Reconciler {
	return &Reconciler{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		telemetry: telemetry,
		logger:    logger,
		qos:       qos,
	}
}

// RequestLockStateChange records a desired lock state and publishes the
// command to the tracker.
//
// The desired state is persisted first and is never rolled back: if the
// publish fails the request survives as a pending divergence and the
// returned error wraps ErrPublishFailed so the caller can tell delivery
// failure apart from a persistence failure. Requesting
// the state the tracker already reports is valid and re-publishes the
// command (a retry path for lost messages).
func (r *Reconciler) RequestLockStateChange(ctx context.Context, trackerID, state string) error {
	desired, err := ParseLockState(state)
	if err != nil {
		return err
	}

	if err := r.repo.UpdateDesiredLockState(ctx, trackerID, desired); err != nil {
		return err
	}

	payload, err := wire.EncodeLockCommand(string(desired))
	if err != nil {
		return err
	}

	topic := wire.EncodeTopic(trackerID, wire.TopicLockStateUpdate)
	if err := r.publisher.Publish(topic, payload, r.qos, false); err != nil {
		if r.logger != nil {
			r.logger.Warn("lock command publish failed, desired state retained",
				"tracker_id", trackerID,
				"state", string(desired),
				"error", err,
			)
		}
		return fmt.Errorf("%w: publishing lock command for %s: %v", ErrPublishFailed, trackerID, err)
	}

	return nil
}

// ApplyDeviceAck records a lock state reported by the device.
//
// A state change is persisted and produces exactly one notification. An
// acknowledgement repeating the stored state only refreshes the tracker's
// last_updated timestamp; no notification is emitted for duplicates.
func (r *Reconciler) ApplyDeviceAck(ctx context.Context, trackerID, state string) error {
	acked, err := ParseLockState(state)
	if err != nil {
		return err
	}

	current, err := r.repo.GetByID(ctx, trackerID)
	if err != nil {
		return err
	}

	if current.LockState == acked {
		return r.repo.Touch(ctx, trackerID)
	}

	if err := r.repo.UpdateLockState(ctx, trackerID, acked); err != nil {
		return err
	}

	if r.telemetry != nil {
		r.telemetry.WriteLockStateChange(trackerID, string(acked))
	}

	if r.notifier != nil {
		if err := r.notifier.LockStateChanged(ctx, trackerID, string(acked)); err != nil {
			// The ack is already applied; a failed notification is not
			// worth surfacing to the device path.
			if r.logger != nil {
				r.logger.Error("lock state notification failed",
					"tracker_id", trackerID,
					"state", string(acked),
					"error", err,
				)
			}
		}
	}

	return nil
}
