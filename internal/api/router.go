package api

import (
	"net/http"

	"avara-relay/internal/api/handlers"
	"avara-relay/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter configures HTTP routes
func SetupRouter(handler *handlers.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(RequestIDMiddleware)
	router.Use(func(next http.Handler) http.Handler {
		return LoggingMiddleware(logger, m, next)
	})

	// Health check
	router.HandleFunc("/", handler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)

	// Chat endpoint; GET is only served as a WebSocket upgrade
	router.HandleFunc("/chat", handler.ChatHandler).Methods(http.MethodPost, http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return router
}
