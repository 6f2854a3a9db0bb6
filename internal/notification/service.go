package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Broadcaster pushes notifications to connected clients. Satisfied by
// api.Hub.
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// BroadcastChannel is the WebSocket channel notifications are pushed on.
const BroadcastChannel = "notifications"

// Service creates, persists and broadcasts notifications.
//
// Persistence comes first: a notification that cannot be stored is not
// broadcast, so clients never see events that are missing from history.
type Service struct {
	repo        Repository
	broadcaster Broadcaster
}

// NewService creates a notification service. broadcaster may be nil.
func NewService(repo Repository, broadcaster Broadcaster) *Service {
	return &Service{repo: repo, broadcaster: broadcaster}
}

// LockStateChanged records a tracker lock state transition.
func (s *Service) LockStateChanged(ctx context.Context, trackerID, state string) error {
	return s.create(ctx, TypeLockStateChanged, trackerID,
		fmt.Sprintf("Tracker %s has been %s.", trackerID, state))
}

// MotionDetected records motion on a locked tracker.
func (s *Service) MotionDetected(ctx context.Context, trackerID string) error {
	return s.create(ctx, TypeMotionDetected, trackerID,
		fmt.Sprintf("Motion detected on locked tracker %s.", trackerID))
}

// create builds, stores and broadcasts a notification.
func (s *Service) create(ctx context.Context, typ Type, trackerID, message string) error {
	n := &Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Message:   message,
		TrackerID: trackerID,
		Timestamp: time.Now().UTC(),
	}

	if err := s.repo.Add(ctx, n); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(BroadcastChannel, n)
	}

	return nil
}

// List retrieves notifications, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Notification, error) {
	return s.repo.List(ctx, limit)
}

// ListByTracker retrieves notifications for a tracker, newest first.
func (s *Service) ListByTracker(ctx context.Context, trackerID string, limit int) ([]Notification, error) {
	return s.repo.ListByTracker(ctx, trackerID, limit)
}

// Delete removes a notification.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
