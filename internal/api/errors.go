package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/argus-iot/argus-core/internal/location"
	"github.com/argus-iot/argus-core/internal/lock"
	"github.com/argus-iot/argus-core/internal/notification"
	"github.com/argus-iot/argus-core/internal/tracker"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
	ErrCodeUnavailable  = "unavailable"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeConflict writes a 409 error response.
func writeConflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, ErrCodeConflict, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps domain sentinel errors to HTTP responses.
// Unknown errors become 500 with a generic message; details stay in logs.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrTrackerNotFound),
		errors.Is(err, lock.ErrLockNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, tracker.ErrTrackerExists),
		errors.Is(err, lock.ErrLockExists):
		writeConflict(w, err.Error())
	case errors.Is(err, tracker.ErrInvalidTrackerID),
		errors.Is(err, tracker.ErrInvalidLockState),
		errors.Is(err, tracker.ErrInvalidUser),
		errors.Is(err, lock.ErrInvalidLockID),
		errors.Is(err, lock.ErrInvalidStatus),
		errors.Is(err, location.ErrInvalidCoordinates),
		errors.Is(err, location.ErrInvalidTrackerID),
		errors.Is(err, notification.ErrInvalidNotification):
		writeBadRequest(w, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeInternalError(w, "internal server error")
	}
}
