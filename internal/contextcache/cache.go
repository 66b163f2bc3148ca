package contextcache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/shearly/shearly-api/internal/config"
)

const ttl = 15 * time.Minute

// Cache mirrors the last published context document per
// (tenant, agent type) so reads skip Postgres. Regeneration overwrites
// the entry, matching the upsert semantics of the backing table.
type Cache struct {
	rdb *redis.Client
}

func New(cfg *config.Config) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		}),
	}
}

func key(tenantID uint, agentType string) string {
	return fmt.Sprintf("context:%d:%s", tenantID, agentType)
}

// Get returns the cached document JSON, or "" on miss. Redis being
// down degrades to a miss, never an error.
func (c *Cache) Get(ctx context.Context, tenantID uint, agentType string) string {
	val, err := c.rdb.Get(ctx, key(tenantID, agentType)).Result()
	if err != nil {
		return ""
	}
	return val
}

func (c *Cache) Set(ctx context.Context, tenantID uint, agentType string, document string) {
	c.rdb.Set(ctx, key(tenantID, agentType), document, ttl)
}

func (c *Cache) Invalidate(ctx context.Context, tenantID uint, agentType string) {
	c.rdb.Del(ctx, key(tenantID, agentType))
}
