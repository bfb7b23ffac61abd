package handlers

import (
	"encoding/json"
	"net/http"

	apperror "avara-relay/internal/error"
	"avara-relay/internal/service"

	"go.uber.org/zap"
)

// ----------------------------------------------------------------------------------------------------------------
// handleJSONChat answers 200 for every relay outcome; only malformed input gets an error status
func (h *Handler) handleJSONChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req service.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode request", zap.Error(err))
		h.sendErrorResponse(w, apperror.NewValidationError("Invalid JSON in request body", err))
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid chat request", zap.Error(err))
		h.sendErrorResponse(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.relay.HandleChat(r.Context(), &req))
}
