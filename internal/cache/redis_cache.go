package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

const (
	keyPrefix     = "item-analysis"
	scanBatchSize = 100
)

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}

type redisCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, logger *slog.Logger) CacheService {
	return &redisCache{
		client: client,
		logger: logger,
	}
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		r.logger.Warn("Cache write failed", "key", key, "error", err)
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	payload, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		r.logger.Warn("Cache read failed", "key", key, "error", err)
		return fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to decode cache value for %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// DeletePattern removes every key matching a glob pattern. SCAN is used
// instead of KEYS so large keyspaces do not block the server.
func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys %s: %w", pattern, err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Debug("Cache keys invalidated", "pattern", pattern, "count", deleted)
	return nil
}

// ReportCacheKey is the key of one consolidated report. Filter values are
// trimmed only: they must match sessions the same way the store does, which
// compares them case-sensitively.
func ReportCacheKey(userID, gradeLevel, subject, examTitle string) string {
	return fmt.Sprintf("%s:report:%s:%s|%s|%s", keyPrefix, userKeyPart(userID),
		strings.TrimSpace(gradeLevel), strings.TrimSpace(subject), strings.TrimSpace(examTitle))
}

// ReportCachePattern matches every cached report of one user
func ReportCachePattern(userID string) string {
	return fmt.Sprintf("%s:report:%s:*", keyPrefix, userKeyPart(userID))
}

// userKeyPart escapes the user id so it can neither carry glob
// metacharacters into a SCAN pattern nor a ':' that would make one
// user's pattern match another user's keys.
func userKeyPart(userID string) string {
	return url.QueryEscape(userID)
}
