package service

import (
	"context"
	"errors"
	"time"

	apperror "avara-relay/internal/error"
	"avara-relay/internal/llm"
	"avara-relay/internal/metrics"

	"go.uber.org/zap"
)

// relayService forwards one user message to the completion API per request
type relayService struct {
	llmClient llm.Client
	counter   TokenCounter // Can be nil
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewRelayService creates a new relay service with injected dependencies
func NewRelayService(
	llmClient llm.Client,
	counter TokenCounter, // Can be nil
	m *metrics.Metrics,
	logger *zap.Logger,
) RelayService {
	return &relayService{
		llmClient: llmClient,
		counter:   counter,
		metrics:   m,
		logger:    logger,
	}
}

// HandleChat relays the request and renders the outcome. It never fails.
func (s *relayService) HandleChat(ctx context.Context, req *ChatRequest) ChatResponse {
	outcome := s.Relay(ctx, req)
	s.metrics.ChatRequestsTotal.WithLabelValues(outcome.Kind.String()).Inc()
	return ChatResponse{Response: outcome.Message()}
}

// Relay makes exactly one upstream call and classifies its result
func (s *relayService) Relay(ctx context.Context, req *ChatRequest) Outcome {
	s.logger.Info("Received chat request", zap.String("user_id", req.UserID))

	s.countTokens(ctx, "prompt", req.Message)

	start := time.Now()
	text, err := s.llmClient.Chat(ctx, []llm.Message{
		{Role: "user", Content: req.Message},
	})
	s.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return s.classify(req, err)
	}

	s.countTokens(ctx, "completion", text)
	return Success(text)
}

func (s *relayService) classify(req *ChatRequest, err error) Outcome {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperror.ErrorTypeUpstreamStatus:
			s.logger.Error("Completion API returned error status",
				zap.String("user_id", req.UserID),
				zap.Int("status", appErr.UpstreamStatus),
				zap.Error(err),
			)
			return UpstreamStatusFailure(appErr.UpstreamStatus, err)
		case apperror.ErrorTypeUpstreamShape:
			s.logger.Warn("Completion API returned no choices",
				zap.String("user_id", req.UserID),
				zap.Error(err),
			)
			return ShapeFailure(err)
		}
	}

	s.logger.Error("Relay failed",
		zap.String("user_id", req.UserID),
		zap.Error(err),
	)
	return TransportFailure(err)
}

func (s *relayService) countTokens(ctx context.Context, kind, text string) {
	if s.counter == nil {
		return
	}

	count, err := s.counter.Count(ctx, text)
	if err != nil {
		s.logger.Debug("Token accounting failed", zap.String("kind", kind), zap.Error(err))
	}
	if count > 0 {
		s.metrics.TokensTotal.WithLabelValues(kind).Add(float64(count))
	}
}
