package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/argus-iot/argus-core/internal/notification"
)

// handleListNotifications returns recent notifications, newest first.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := s.notifications.List(r.Context(), historyLimit(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []notification.Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleListTrackerNotifications returns notifications for one tracker.
func (s *Server) handleListTrackerNotifications(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.trackers.GetByID(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	list, err := s.notifications.ListByTracker(r.Context(), id, historyLimit(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []notification.Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleDeleteNotification removes a notification.
func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
