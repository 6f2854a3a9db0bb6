package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Tracker endpoints
			r.Route("/trackers", func(r chi.Router) {
				r.Get("/", s.handleListTrackers)
				r.Post("/", s.handleRegisterTracker)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetTracker)
					r.Patch("/", s.handleUpdateTracker)
					r.Delete("/", s.handleDeleteTracker)
					r.Post("/link", s.handleLinkTracker)
					r.Get("/lock-state", s.handleGetLockState)
					r.Put("/lock-state", s.handleSetLockState)
					r.Get("/locks", s.handleListTrackerLocks)
					r.Get("/motions", s.handleListTrackerMotions)
					r.Post("/motions", s.handleRecordTrackerMotion)
					r.Get("/locations", s.handleListTrackerLocations)
					r.Post("/locations", s.handleRecordTrackerLocation)
					r.Get("/locations/latest", s.handleLatestTrackerLocation)
					r.Get("/notifications", s.handleListTrackerNotifications)
				})
			})

			// Lock endpoints
			r.Route("/locks", func(r chi.Router) {
				r.Get("/", s.handleListLocks)
				r.Post("/", s.handleRegisterLock)
				r.Get("/{id}", s.handleGetLock)
				r.Delete("/{id}", s.handleDeleteLock)
				r.Put("/{id}/status", s.handleUpdateLockStatus)
			})

			// Notification endpoints
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Delete("/{id}", s.handleDeleteNotification)
			})

			// Ad-hoc MQTT publish (diagnostics, manual commands)
			r.Post("/mqtt/publish", s.handleMQTTPublish)

			// WebSocket (auth via ticket, validated in handler)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
