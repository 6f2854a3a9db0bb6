package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/argus-iot/argus-core/internal/location"
	"github.com/argus-iot/argus-core/internal/motion"
)

// recordMotionRequest is the request body for POST /trackers/{id}/motions.
type recordMotionRequest struct {
	MotionDetected bool      `json:"motionDetected"`
	Timestamp      time.Time `json:"timestamp,omitempty"`
}

// recordLocationRequest is the request body for POST /trackers/{id}/locations.
type recordLocationRequest struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// defaultHistoryLimit caps history responses when the client does not ask
// for a specific limit.
const defaultHistoryLimit = 100

// historyLimit parses the ?limit query parameter.
func historyLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultHistoryLimit
}

// handleRecordTrackerMotion records a motion event on behalf of a device.
// Devices normally report over MQTT; this is the REST equivalent for
// gateways and testing. Alerting rules are identical to the MQTT path.
func (s *Server) handleRecordTrackerMotion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req recordMotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if _, err := s.trackers.GetByID(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	m, err := s.motions.RecordMotion(r.Context(), id, req.MotionDetected, req.Timestamp)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// handleRecordTrackerLocation records a GPS fix on behalf of a device.
func (s *Server) handleRecordTrackerLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req recordLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if _, err := s.trackers.GetByID(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	l, err := s.locations.Record(r.Context(), id, req.Latitude, req.Longitude, req.Timestamp)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, l)
}

// handleListTrackerMotions returns recent motion events for a tracker.
func (s *Server) handleListTrackerMotions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.trackers.GetByID(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	events, err := s.motions.History(r.Context(), id, historyLimit(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if events == nil {
		events = []motion.Motion{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleListTrackerLocations returns recent location fixes for a tracker.
func (s *Server) handleListTrackerLocations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.trackers.GetByID(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	fixes, err := s.locations.History(r.Context(), id, historyLimit(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if fixes == nil {
		fixes = []location.Location{}
	}
	writeJSON(w, http.StatusOK, fixes)
}

// handleLatestTrackerLocation returns the most recent fix for a tracker.
func (s *Server) handleLatestTrackerLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.trackers.GetByID(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	latest, err := s.locations.Latest(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if latest == nil {
		writeNotFound(w, "tracker has no location history")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}
