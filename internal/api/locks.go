package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/argus-iot/argus-core/internal/lock"
)

// registerLockRequest is the request body for POST /locks.
type registerLockRequest struct {
	ID        string `json:"id"`
	TrackerID string `json:"trackerId"`
	Name      string `json:"name"`
}

// handleListLocks returns all locks.
func (s *Server) handleListLocks(w http.ResponseWriter, r *http.Request) {
	locks, err := s.locks.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if locks == nil {
		locks = []lock.Lock{}
	}
	writeJSON(w, http.StatusOK, locks)
}

// handleRegisterLock registers a new lock on a tracker.
func (s *Server) handleRegisterLock(w http.ResponseWriter, r *http.Request) {
	var req registerLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	// The tracker must exist before a lock can attach to it.
	if _, err := s.trackers.GetByID(r.Context(), req.TrackerID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	l := lock.New(req.ID, req.TrackerID, req.Name)
	if err := s.locks.Register(r.Context(), l); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, l)
}

// updateLockStatusRequest is the request body for PUT /locks/{id}/status.
type updateLockStatusRequest struct {
	Status string `json:"status"`
}

// handleUpdateLockStatus records a lock status reported outside the MQTT
// path (operator override or gateway relay).
func (s *Server) handleUpdateLockStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateLockStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	status, err := lock.ParseStatus(req.Status)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if err := s.locks.UpdateStatus(r.Context(), id, status); err != nil {
		s.writeDomainError(w, err)
		return
	}

	l, err := s.locks.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, l)
}

// handleGetLock returns a single lock.
func (s *Server) handleGetLock(w http.ResponseWriter, r *http.Request) {
	l, err := s.locks.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// handleDeleteLock removes a lock.
func (s *Server) handleDeleteLock(w http.ResponseWriter, r *http.Request) {
	if err := s.locks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleListTrackerLocks returns all locks attached to a tracker.
func (s *Server) handleListTrackerLocks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.trackers.GetByID(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	locks, err := s.locks.ListByTracker(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if locks == nil {
		locks = []lock.Lock{}
	}
	writeJSON(w, http.StatusOK, locks)
}
