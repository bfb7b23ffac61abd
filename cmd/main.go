package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"avara-relay/internal/config"
	"avara-relay/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	logger.Info("Starting Avara council relay",
		zap.String("port", cfg.Port),
		zap.String("upstream", cfg.GLMBaseURL),
		zap.String("model", cfg.Model),
	)

	if cfg.GLMAPIKey == "" {
		logger.Warn("GLM_API_KEY is not set; completion requests will be rejected upstream")
	}

	registry := cfg.NewRegistry()
	m := cfg.NewMetrics(registry)

	cacheStore := cfg.NewCacheStore(logger)
	defer cacheStore.Close()

	counter := cfg.NewTokenCounter(cacheStore, logger)
	relay := cfg.NewRelayService(counter, m, logger)

	handler := cfg.NewHandler(relay, m, logger)

	router := cfg.NewRouter(handler, m, registry, logger)

	srv := cfg.NewHTTPServer(router)

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
