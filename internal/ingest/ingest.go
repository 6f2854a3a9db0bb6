package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/argus-iot/argus-core/internal/infrastructure/mqtt"
	"github.com/argus-iot/argus-core/internal/location"
	"github.com/argus-iot/argus-core/internal/lock"
	"github.com/argus-iot/argus-core/internal/motion"
	"github.com/argus-iot/argus-core/internal/wire"
)

// Transport provides fleet-wide subscriptions. Satisfied by mqtt.Client.
type Transport interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// AckSink applies device lock acknowledgements. Satisfied by
// tracker.Reconciler.
type AckSink interface {
	ApplyDeviceAck(ctx context.Context, trackerID, state string) error
}

// MotionSink records motion events. Satisfied by motion.Processor.
type MotionSink interface {
	RecordMotion(ctx context.Context, trackerID string, detected bool, timestamp time.Time) (*motion.Motion, error)
}

// LocationSink records location fixes. Satisfied by location.Recorder.
type LocationSink interface {
	Record(ctx context.Context, trackerID string, latitude, longitude float64, timestamp time.Time) (*location.Location, error)
}

// LockStatusSink applies lock status reports. Satisfied by
// lock.SQLiteRepository.
type LockStatusSink interface {
	UpdateStatus(ctx context.Context, id string, status lock.Status) error
}

// Logger is the minimal logging interface the ingestor needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Ingestor subscribes to the fleet's device-to-core topics and routes
// each message to its domain handler.
//
// Handler errors are returned to the transport, which logs and drops the
// message; a malformed or unroutable payload never tears down the
// subscription.
type Ingestor struct {
	transport Transport
	acks      AckSink
	motions   MotionSink
	locations LocationSink
	locks     LockStatusSink
	logger    Logger
	qos       byte

	topics []string
}

// New creates an ingestor. logger may be nil.
func New(transport Transport, acks AckSink, motions MotionSink, locations LocationSink, locks LockStatusSink, logger Logger, qos byte) *Ingestor {
	return &Ingestor{
		transport: transport,
		acks:      acks,
		motions:   motions,
		locations: locations,
		locks:     locks,
		logger:    logger,
		qos:       qos,
	}
}

// Start subscribes to all device-to-core topic types. The context is
// carried into message handlers for database operations.
func (i *Ingestor) Start(ctx context.Context) error {
	subs := []struct {
		topicType string
		handler   mqtt.MessageHandler
	}{
		{wire.TopicAck, i.handleAck(ctx)},
		{wire.TopicMotion, i.handleMotion(ctx)},
		{wire.TopicLocation, i.handleLocation(ctx)},
		{wire.TopicLockStatus, i.handleLockStatus(ctx)},
	}

	for _, sub := range subs {
		pattern := wire.Wildcard(sub.topicType)
		if err := i.transport.Subscribe(pattern, i.qos, sub.handler); err != nil {
			return fmt.Errorf("subscribing to %s: %w", pattern, err)
		}
		i.topics = append(i.topics, pattern)
	}

	if i.logger != nil {
		i.logger.Info("ingest subscriptions active", "topics", len(i.topics), "qos", i.qos)
	}

	return nil
}

// Close unsubscribes from all ingest topics. Safe to call when Start
// failed partway; only established subscriptions are removed.
func (i *Ingestor) Close() error {
	var firstErr error
	for _, topic := range i.topics {
		if err := i.transport.Unsubscribe(topic); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	i.topics = nil
	return firstErr
}

func (i *Ingestor) handleAck(ctx context.Context) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		trackerID, _, err := wire.DecodeTopic(topic)
		if err != nil {
			return err
		}

		ack, err := wire.DecodeAck(payload)
		if err != nil {
			return err
		}

		return i.acks.ApplyDeviceAck(ctx, trackerID, ack.State)
	}
}

func (i *Ingestor) handleMotion(ctx context.Context) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		trackerID, _, err := wire.DecodeTopic(topic)
		if err != nil {
			return err
		}

		ev, err := wire.DecodeMotionEvent(payload)
		if err != nil {
			return err
		}

		_, err = i.motions.RecordMotion(ctx, trackerID, ev.MotionDetected, ev.Timestamp)
		return err
	}
}

func (i *Ingestor) handleLocation(ctx context.Context) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		trackerID, _, err := wire.DecodeTopic(topic)
		if err != nil {
			return err
		}

		loc, err := wire.DecodeLocationUpdate(payload)
		if err != nil {
			return err
		}

		_, err = i.locations.Record(ctx, trackerID, loc.Latitude, loc.Longitude, loc.Timestamp)
		return err
	}
}

func (i *Ingestor) handleLockStatus(ctx context.Context) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		trackerID, _, err := wire.DecodeTopic(topic)
		if err != nil {
			return err
		}

		report, err := wire.DecodeLockStatus(payload)
		if err != nil {
			return err
		}

		status, err := lock.ParseStatus(report.Status)
		if err != nil {
			return err
		}

		if err := i.locks.UpdateStatus(ctx, report.LockID, status); err != nil {
			if i.logger != nil {
				i.logger.Warn("lock status for unknown lock dropped",
					"lock_id", report.LockID,
					"tracker_id", trackerID,
					"error", err,
				)
			}
			return err
		}

		return nil
	}
}
