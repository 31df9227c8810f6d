package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const tagKeyPrefix = "bookmark:tags:"

// TagCache caches the per-user tag vocabulary in Redis. Misses and failures
// both fall back to the store; writers invalidate.
type TagCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTagCache(rdb *redis.Client, ttl time.Duration) *TagCache {
	return &TagCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached vocabulary, or (nil, nil) on miss.
func (c *TagCache) Get(ctx context.Context, ownerID string) ([]string, error) {
	b, err := c.rdb.Get(ctx, tagKeyPrefix+ownerID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tags []string
	if err := json.Unmarshal(b, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *TagCache) Set(ctx context.Context, ownerID string, tags []string) error {
	b, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, tagKeyPrefix+ownerID, b, c.ttl).Err()
}

func (c *TagCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.rdb.Del(ctx, tagKeyPrefix+ownerID).Err()
}
