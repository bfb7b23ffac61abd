package service

import "context"

// RelayService defines the interface for chat relay operations
type RelayService interface {
	Relay(ctx context.Context, req *ChatRequest) Outcome
	HandleChat(ctx context.Context, req *ChatRequest) ChatResponse
}

// TokenCounter counts tokens for usage accounting
type TokenCounter interface {
	Count(ctx context.Context, text string) (int, error)
}
