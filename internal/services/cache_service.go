package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketly/internal/utils"
	"marketly/pkg/cache"
	"marketly/pkg/logger"
)

type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)

	Ping(ctx context.Context) error
}

// CacheStore is the subset of the Redis wrapper the cache service drives.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	GetTTL(ctx context.Context, key string) (time.Duration, error)
	Ping(ctx context.Context) error
}

type RateLimitResult struct {
	Allowed    bool          `json:"allowed"`
	Count      int64         `json:"count"`
	Remaining  int64         `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
}

// ErrCacheMiss is returned by Get when nothing is stored under the key.
var ErrCacheMiss = cache.ErrCacheMiss

type cacheService struct {
	store      CacheStore
	defaultTTL time.Duration
	logger     *logger.Logger
}

func NewCacheService(store CacheStore, defaultTTL time.Duration, logger *logger.Logger) CacheService {
	return &cacheService{
		store:      store,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if err := s.store.Get(ctx, key, dest); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	s.logger.WithField("cache_key", key).Debug("Cache hit")
	return nil
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration == 0 {
		expiration = s.defaultTTL
	}

	if err := s.store.Set(ctx, key, value, expiration); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}

	s.logger.WithField("cache_key", key).
		WithField("expiration", expiration.String()).
		Debug("Cache set")

	return nil
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) error {
	if err := s.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	s.logger.WithField("cache_keys", keys).Debug("Cache keys deleted")
	return nil
}

func (s *cacheService) DeletePattern(ctx context.Context, pattern string) error {
	if err := s.store.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to delete cache pattern %s: %w", pattern, err)
	}

	s.logger.WithField("cache_pattern", pattern).Debug("Cache pattern invalidated")
	return nil
}

// CheckRateLimit counts one hit in a fixed window keyed by key.
func (s *cacheService) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	rateLimitKey := utils.CacheRateLimitPrefix + key

	count, err := s.store.IncrementWindow(ctx, rateLimitKey, window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	result := &RateLimitResult{
		Allowed:   count <= limit,
		Count:     count,
		Remaining: remaining,
	}
	if !result.Allowed {
		ttl, err := s.store.GetTTL(ctx, rateLimitKey)
		if err != nil || ttl < 0 {
			ttl = window
		}
		result.RetryAfter = ttl
	}

	return result, nil
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
