package tracker

import (
	"context"
	"fmt"
	"strings"
)

// Service provides tracker registration and lifecycle operations on top of
// a Repository. It owns the registration defaults: a new tracker starts
// locked with a matching desired state, so a fresh device needs no sync.
type Service struct {
	repo Repository
}

// NewService creates a tracker service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new tracker with default lock state.
//
// Both lock_state and desired_lock_state start as "locked". A name is
// optional; an empty name falls back to the tracker ID.
func (s *Service) Register(ctx context.Context, id, name string) (*Tracker, error) {
	if strings.TrimSpace(name) == "" {
		name = id
	}

	t := &Tracker{
		ID:               id,
		Name:             name,
		LockState:        LockStateLocked,
		DesiredLockState: LockStateLocked,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a tracker.
func (s *Service) GetByID(ctx context.Context, id string) (*Tracker, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all trackers.
func (s *Service) List(ctx context.Context) ([]Tracker, error) {
	return s.repo.List(ctx)
}

// LinkToUser attaches user account details to a tracker. Both the email
// and the Firebase UID are required.
func (s *Service) LinkToUser(ctx context.Context, id, email, firebaseUID string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidUser)
	}
	if strings.TrimSpace(firebaseUID) == "" {
		return fmt.Errorf("%w: firebase uid is required", ErrInvalidUser)
	}
	return s.repo.LinkToUser(ctx, id, email, firebaseUID)
}

// UpdateDetails renames a tracker and updates its user details.
func (s *Service) UpdateDetails(ctx context.Context, t *Tracker) error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrInvalidTrackerID
	}
	if strings.TrimSpace(t.Name) == "" {
		t.Name = t.ID
	}
	return s.repo.Update(ctx, t)
}

// FetchLockState returns the acknowledged lock state of a tracker.
func (s *Service) FetchLockState(ctx context.Context, id string) (LockState, error) {
	return s.repo.FetchLockState(ctx, id)
}

// Delete removes a tracker together with its locks and telemetry history.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
