package api

import (
	"encoding/json"
	"net/http"
)

// publishRequest is the request body for POST /mqtt/publish.
type publishRequest struct {
	Topic    string `json:"topic"`
	Payload  string `json:"payload"`
	QoS      byte   `json:"qos"`
	Retained bool   `json:"retained"`
}

// handleMQTTPublish publishes an arbitrary message to the broker.
//
// Intended for diagnostics and manual device commands; the normal lock
// path goes through PUT /trackers/{id}/lock-state.
func (s *Server) handleMQTTPublish(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "message transport not connected")
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Topic == "" {
		writeBadRequest(w, "topic is required")
		return
	}
	if req.QoS > 2 {
		writeBadRequest(w, "qos must be 0, 1, or 2")
		return
	}

	if err := s.publisher.Publish(req.Topic, []byte(req.Payload), req.QoS, req.Retained); err != nil {
		s.logger.Warn("ad-hoc publish failed", "topic", req.Topic, "error", err)
		writeError(w, http.StatusBadGateway, ErrCodeUnavailable, "publish failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"topic":  req.Topic,
		"status": "published",
	})
}
