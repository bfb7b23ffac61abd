package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tiktoken-go/tokenizer"
)

const DefaultTokenCacheTTL = 24 * time.Hour

// TokenCounter counts tokens with tiktoken and memoises counts in a CacheStore
type TokenCounter struct {
	codec tokenizer.Codec
	cache CacheStore // Can be nil
	ttl   time.Duration
}

// NewTokenCounter loads the cl100k_base encoding
func NewTokenCounter(cache CacheStore, ttl time.Duration) (*TokenCounter, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTokenCacheTTL
	}

	return &TokenCounter{
		codec: codec,
		cache: cache,
		ttl:   ttl,
	}, nil
}

// Count returns the number of tokens in text. Cache errors fall through to encoding.
func (c *TokenCounter) Count(ctx context.Context, text string) (int, error) {
	key := cacheKey(text)

	if c.cache != nil {
		if count, found, err := c.cache.GetTokenCount(ctx, key); err == nil && found {
			return count, nil
		}
	}

	tokens, _, err := c.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("failed to encode content: %w", err)
	}
	count := len(tokens)

	if c.cache != nil {
		if err := c.cache.SetTokenCount(ctx, key, count, c.ttl); err != nil {
			return count, fmt.Errorf("failed to cache token count: %w", err)
		}
	}

	return count, nil
}

func cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("token_count:%s", hex.EncodeToString(hash[:]))
}
