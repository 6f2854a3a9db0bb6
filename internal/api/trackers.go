package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/argus-iot/argus-core/internal/tracker"
)

// registerTrackerRequest is the request body for POST /trackers.
type registerTrackerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// updateTrackerRequest is the request body for PATCH /trackers/{id}.
type updateTrackerRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	FirebaseUID *string `json:"firebaseUid,omitempty"`
}

// linkTrackerRequest is the request body for POST /trackers/{id}/link.
type linkTrackerRequest struct {
	Email       string `json:"email"`
	FirebaseUID string `json:"firebaseUid"`
}

// lockStateRequest is the request body for PUT /trackers/{id}/lock-state.
type lockStateRequest struct {
	State string `json:"state"`
}

// lockStateResponse is the response body for lock state reads and writes.
type lockStateResponse struct {
	TrackerID string `json:"trackerId"`
	LockState string `json:"lockState"`
	NeedsSync bool   `json:"needsSync,omitempty"`
}

// handleListTrackers returns all registered trackers.
func (s *Server) handleListTrackers(w http.ResponseWriter, r *http.Request) {
	trackers, err := s.trackers.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if trackers == nil {
		trackers = []tracker.Tracker{}
	}
	writeJSON(w, http.StatusOK, trackers)
}

// handleRegisterTracker registers a new tracker.
func (s *Server) handleRegisterTracker(w http.ResponseWriter, r *http.Request) {
	var req registerTrackerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	t, err := s.trackers.Register(r.Context(), req.ID, req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// handleGetTracker returns a single tracker.
func (s *Server) handleGetTracker(w http.ResponseWriter, r *http.Request) {
	t, err := s.trackers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleUpdateTracker updates a tracker's name or user details.
func (s *Server) handleUpdateTracker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTrackerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	t, err := s.trackers.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Email != nil {
		t.Email = req.Email
	}
	if req.FirebaseUID != nil {
		t.FirebaseUID = req.FirebaseUID
	}

	if err := s.trackers.UpdateDetails(r.Context(), t); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// handleDeleteTracker removes a tracker together with its locks and its
// motion and location history. Notifications are retained.
func (s *Server) handleDeleteTracker(w http.ResponseWriter, r *http.Request) {
	if err := s.trackers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleLinkTracker attaches user account details to a tracker.
func (s *Server) handleLinkTracker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req linkTrackerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.trackers.LinkToUser(r.Context(), id, req.Email, req.FirebaseUID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	t, err := s.trackers.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// handleGetLockState returns a tracker's acknowledged lock state.
func (s *Server) handleGetLockState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := s.trackers.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lockStateResponse{
		TrackerID: t.ID,
		LockState: string(t.LockState),
		NeedsSync: t.NeedsSync(),
	})
}

// handleSetLockState requests a lock state change for a tracker.
//
// Returns 202: the desired state is persisted and the command published,
// but the device has not confirmed yet. A publish failure still records
// the desired state and reports 502 so the caller knows to expect a delay.
func (s *Server) handleSetLockState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req lockStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	err := s.reconciler.RequestLockStateChange(r.Context(), id, req.State)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]any{
			"trackerId":    id,
			"desiredState": req.State,
			"status":       "pending",
		})
	case errors.Is(err, tracker.ErrPublishFailed):
		// Desired state is stored; only delivery failed.
		s.logger.Warn("lock command delivery failed", "tracker_id", id, "error", err)
		writeError(w, http.StatusBadGateway, ErrCodeUnavailable,
			"desired state recorded but command delivery failed")
	default:
		s.writeDomainError(w, err)
	}
}
