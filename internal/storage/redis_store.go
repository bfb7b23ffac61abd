package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore manages Redis connection for token cache
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store and checks the connection
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: rdb}, nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// GetTokenCount retrieves a cached token count
func (r *RedisStore) GetTokenCount(ctx context.Context, key string) (int, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("invalid cached token count %q: %w", val, err)
	}

	return count, true, nil
}

// SetTokenCount caches a token count
func (r *RedisStore) SetTokenCount(ctx context.Context, key string, count int, ttl time.Duration) error {
	return r.client.Set(ctx, key, strconv.Itoa(count), ttl).Err()
}
