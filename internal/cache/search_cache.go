package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nabih-app/nabih-api/internal/models"
)

const searchKeyPrefix = "nabih:cache:"

// SearchCache is the first cache tier for comparison results.
type SearchCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSearchCache creates a new SearchCache with the given entry TTL.
func NewSearchCache(redis *RedisClient, ttl time.Duration) *SearchCache {
	return &SearchCache{
		redis: redis,
		ttl:   ttl,
	}
}

func (c *SearchCache) key(queryKey string) string {
	return fmt.Sprintf("%s%s", searchKeyPrefix, queryKey)
}

// Get returns the cached result for queryKey, or nil on a miss.
func (c *SearchCache) Get(ctx context.Context, queryKey string) (*models.ComparisonResult, error) {
	raw, err := c.redis.Get(ctx, c.key(queryKey))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var result models.ComparisonResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}

// Set stores a result under queryKey with the configured TTL. On a write
// failure the whole namespace is evicted and the write retried once,
// mirroring the wholesale eviction the storage layer applies when full.
func (c *SearchCache) Set(ctx context.Context, queryKey string, result *models.ComparisonResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(queryKey), string(payload), c.ttl); err != nil {
		log.Warn().Err(err).Str("query_key", queryKey).Msg("Search cache write failed, evicting namespace")
		if evictErr := c.redis.DeleteByPrefix(ctx, searchKeyPrefix); evictErr != nil {
			return fmt.Errorf("failed to evict cache namespace: %w", evictErr)
		}
		return c.redis.Set(ctx, c.key(queryKey), string(payload), c.ttl)
	}
	return nil
}
