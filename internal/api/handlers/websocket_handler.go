package handlers

import (
	"encoding/json"
	"net/http"

	apperror "avara-relay/internal/error"
	"avara-relay/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// handleWebSocketChat relays every text frame independently until the client closes the socket
func (h *Handler) handleWebSocketChat(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxBodyBytes)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("WebSocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		var req service.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.logger.Warn("Failed to decode WebSocket message", zap.Error(err))
			if !h.rejectFrame(conn, apperror.NewValidationError("Invalid JSON in WebSocket message", err)) {
				return
			}
			continue
		}

		if err := req.Validate(); err != nil {
			if !h.rejectFrame(conn, err) {
				return
			}
			continue
		}

		if err := conn.WriteJSON(h.relay.HandleChat(r.Context(), &req)); err != nil {
			h.logger.Error("Failed to write WebSocket response", zap.Error(err))
			return
		}
	}
}

// rejectFrame reports an invalid frame to the client and whether the socket is still writable
func (h *Handler) rejectFrame(conn *websocket.Conn, err error) bool {
	h.metrics.ChatRequestsTotal.WithLabelValues(outcomeInvalid).Inc()
	if writeErr := conn.WriteJSON(apperror.NewErrorResponse(err)); writeErr != nil {
		h.logger.Error("Failed to write WebSocket error", zap.Error(writeErr))
		return false
	}
	return true
}
