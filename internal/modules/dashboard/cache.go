package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsTTL = 30 * time.Second

// StatsCache is a small read-through cache for dashboard aggregates.
// Aggregates are cheap to recompute, so a short TTL and best-effort
// semantics are enough; cache errors never fail the request.
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache wraps a redis client; a nil client disables caching.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

func (c *StatsCache) Get(ctx context.Context, key string) (*Stats, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, "dashboard:stats:"+key).Bytes()
	if err != nil {
		return nil, false
	}

	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, key string, stats *Stats) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, "dashboard:stats:"+key, raw, statsTTL).Err()
}
