package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

const productCountKeyPrefix = "category:product_count:"

// RedisProductCountCache caches per-category product counts in Redis.
// Suitable for deployments where multiple instances serve the category tree.
type RedisProductCountCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisClient creates a Redis client from configuration and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisProductCountCache creates a Redis-backed product count cache.
// A zero TTL means entries never expire and rely on explicit invalidation.
func NewRedisProductCountCache(client *redis.Client, ttl time.Duration) *RedisProductCountCache {
	return &RedisProductCountCache{
		client:    client,
		keyPrefix: productCountKeyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached count for a category. Redis errors are treated
// as cache misses so the caller falls back to recounting.
func (c *RedisProductCountCache) Get(ctx context.Context, categoryID uuid.UUID) (int64, bool) {
	count, err := c.client.Get(ctx, c.key(categoryID)).Int64()
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores the count for a category with the configured TTL
func (c *RedisProductCountCache) Set(ctx context.Context, categoryID uuid.UUID, count int64) error {
	if err := c.client.Set(ctx, c.key(categoryID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product count: %w", err)
	}
	return nil
}

// Invalidate removes the cached count for a category
func (c *RedisProductCountCache) Invalidate(ctx context.Context, categoryID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(categoryID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product count: %w", err)
	}
	return nil
}

func (c *RedisProductCountCache) key(categoryID uuid.UUID) string {
	return c.keyPrefix + categoryID.String()
}

var _ appcatalog.ProductCountCache = (*RedisProductCountCache)(nil)
