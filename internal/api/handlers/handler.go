package handlers

import (
	"encoding/json"
	"net/http"

	apperror "avara-relay/internal/error"
	"avara-relay/internal/metrics"
	"avara-relay/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	healthStatus   = "The Avara council is in session."
	maxBodyBytes   = 1 << 20
	outcomeInvalid = "invalid"
)

type Handler struct {
	relay    service.RelayService
	metrics  *metrics.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status string `json:"status"`
}

// ------------------------------------------------------------------------------------------------------
func NewHandler(relay service.RelayService, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		relay:   relay,
		metrics: m,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {

	if websocket.IsWebSocketUpgrade(r) {
		h.handleWebSocketChat(w, r)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.handleJSONChat(w, r)
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatus})
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) sendErrorResponse(w http.ResponseWriter, err error) {
	h.metrics.ChatRequestsTotal.WithLabelValues(outcomeInvalid).Inc()

	statusCode := apperror.GetHTTPStatusCode(err)
	errorResponse := apperror.NewErrorResponse(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(errorResponse); encodeErr != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(encodeErr),
			zap.NamedError("cause", err),
		)
	}
}
