// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/usecase"
)

// CachingHistoryRepository decorates a HistoryRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Daily closes only change once per
// trading day, so the cache holds them until the next market morning.
type CachingHistoryRepository struct {
	inner     usecase.HistoryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure CachingHistoryRepository implements HistoryRepository.
var _ usecase.HistoryRepository = (*CachingHistoryRepository)(nil)

// NewCachingHistoryRepository decorates a HistoryRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "history".
func NewCachingHistoryRepository(rdb *redis.Client, ttl time.Duration, inner usecase.HistoryRepository, namespace string) *CachingHistoryRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "history"
	}
	return &CachingHistoryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch inserts or updates price points and invalidates related cache entries.
func (c *CachingHistoryRepository) UpsertBatch(ctx context.Context, points []entity.PricePoint) error {
	// First upsert to the underlying repository (MySQL)
	if err := c.inner.UpsertBatch(ctx, points); err != nil {
		return err
	}
	// Exit early if Redis is not configured or there are no points
	if c.rdb == nil || len(points) == 0 {
		return nil
	}

	// Invalidate affected cache entries (keys per symbol)
	seen := map[string]struct{}{}
	for _, p := range points {
		prefix := c.cacheKeyPrefix(p.Symbol)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = c.deleteByPattern(ctx, prefix+"*") // Best effort: don't fail if cache deletion fails
	}
	return nil
}

// Find retrieves price points, checking cache first then falling back to the database.
func (c *CachingHistoryRepository) Find(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Find(ctx, symbol, outputsize)
	}

	key := c.cacheKey(symbol, outputsize)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PricePoint
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.Find(ctx, symbol, outputsize)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort); empty results are not cached so a
	// fresh symbol becomes visible as soon as its history is ingested
	if len(out) > 0 {
		if b, err := json.Marshal(out); err == nil {
			_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
		}
	}

	return out, nil
}

// cacheKey generates a cache key for a specific query.
func (c *CachingHistoryRepository) cacheKey(symbol string, outputsize int) string {
	return fmt.Sprintf("%s:%s:%d", c.namespace, safe(symbol), outputsize)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingHistoryRepository) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingHistoryRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
