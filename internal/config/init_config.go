package config

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"avara-relay/internal/api"
	"avara-relay/internal/api/handlers"
	"avara-relay/internal/llm"
	"avara-relay/internal/logging"
	"avara-relay/internal/metrics"
	"avara-relay/internal/service"
	"avara-relay/internal/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const redisConnectTimeout = 3 * time.Second

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewLogger() (*zap.Logger, error) {
	if err := logging.Init(c.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logging.Logger, nil
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewRegistry() *prometheus.Registry {
	return metrics.NewRegistry()
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewMetrics(reg prometheus.Registerer) *metrics.Metrics {
	return metrics.New(reg)
}

// ------------------------------------------------------------------------------------------------------
// NewCacheStore prefers Redis and falls back to a bounded in-memory store
func (c *Config) NewCacheStore(logger *zap.Logger) storage.CacheStore {
	if c.RedisAddr == "" {
		logger.Info("Redis disabled, using in-memory token cache")
		return storage.NewMemoryStore(c.TokenCacheSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	redisStore, err := storage.NewRedisStore(ctx, c.RedisAddr, c.RedisPassword)
	if err != nil {
		logger.Warn("Failed to connect to Redis, using in-memory token cache",
			zap.String("redis_addr", c.RedisAddr),
			zap.Error(err),
		)
		return storage.NewMemoryStore(c.TokenCacheSize)
	}
	logger.Info("Connected to Redis", zap.String("redis_addr", c.RedisAddr))
	return redisStore
}

// ------------------------------------------------------------------------------------------------------
// NewTokenCounter returns nil when the tokenizer cannot be loaded; accounting is then skipped
func (c *Config) NewTokenCounter(cache storage.CacheStore, logger *zap.Logger) service.TokenCounter {
	counter, err := storage.NewTokenCounter(cache, storage.DefaultTokenCacheTTL)
	if err != nil {
		logger.Warn("Token accounting disabled", zap.Error(err))
		return nil
	}
	return counter
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewLLMClient() llm.Client {
	return llm.NewGLMClient(c.GLMAPIKey, c.GLMBaseURL, c.Model, c.UpstreamTimeout)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewRelayService(counter service.TokenCounter, m *metrics.Metrics, logger *zap.Logger) service.RelayService {
	return service.NewRelayService(c.NewLLMClient(), counter, m, logger)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewHandler(relay service.RelayService, m *metrics.Metrics, logger *zap.Logger) *handlers.Handler {
	return handlers.NewHandler(relay, m, logger)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewRouter(handler *handlers.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *mux.Router {
	return api.SetupRouter(handler, m, gatherer, logger)
}

// ------------------------------------------------------------------------------------------------------
// WriteTimeout leaves room for the full upstream timeout
func (c *Config) NewHTTPServer(router *mux.Router) *http.Server {
	return &http.Server{
		Addr:         ":" + c.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: c.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
