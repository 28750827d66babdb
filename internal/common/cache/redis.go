// internal/common/cache/redis.go
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gravity-webhook/internal/common/config"
	"gravity-webhook/internal/common/logger"
)

// Store is a small string cache backed by Redis. Lookups never fail a
// request: any Redis error is logged and reported as a miss.
type Store struct {
	Client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// New creates a Store from config.
func New(cfg config.RedisConfig, ttl time.Duration, log logger.Logger) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &Store{Client: rdb, ttl: ttl, logger: log}
}

// NewWithClient wraps an existing Redis client (used by tests).
func NewWithClient(client *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	return &Store{Client: client, ttl: ttl, logger: log}
}

// Ping tests the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// Get retrieves a value by key. A Redis failure counts as a miss.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		s.logger.Warn("Cache read failed, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return "", false
	}
	return val, true
}

// Set stores a value under key with the configured TTL. Failures are logged
// and otherwise ignored.
func (s *Store) Set(ctx context.Context, key, value string) {
	if err := s.Client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		s.logger.Warn("Cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Del removes a key. Failures are logged and otherwise ignored.
func (s *Store) Del(ctx context.Context, key string) {
	if err := s.Client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("Cache delete failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
