package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campaignhub/internal/interfaces"
)

const generationKeyPrefix = "metrics:gen:"

func generationKey(projectID string) string {
	return generationKeyPrefix + projectID
}

// redisMetricsCache stores metric maps as JSON strings with a TTL.
type redisMetricsCache struct {
	client redis.Cmdable
}

func NewMetricsCache(client redis.Cmdable) interfaces.MetricsCache {
	return &redisMetricsCache{client: client}
}

func (c *redisMetricsCache) Get(ctx context.Context, key string) (map[string]int, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	var value map[string]int
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, true, nil
}

func (c *redisMetricsCache) Set(ctx context.Context, key string, value map[string]int, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Generation returns the project's current cache generation; a project that
// was never invalidated is at generation 0.
func (c *redisMetricsCache) Generation(ctx context.Context, projectID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(projectID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get generation %s: %w", projectID, err)
	}
	return gen, nil
}

func (c *redisMetricsCache) Invalidate(ctx context.Context, projectID string) error {
	if err := c.client.Incr(ctx, generationKey(projectID)).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", projectID, err)
	}
	return nil
}
