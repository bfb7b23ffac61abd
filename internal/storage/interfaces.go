package storage

import (
	"context"
	"time"
)

// CacheStore defines the interface for token-count caching
type CacheStore interface {
	GetTokenCount(ctx context.Context, key string) (int, bool, error)
	SetTokenCount(ctx context.Context, key string, count int, ttl time.Duration) error
	Close() error
}
