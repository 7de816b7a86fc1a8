package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
)

type countEntry struct {
	count     int64
	expiresAt time.Time
}

// InMemoryProductCountCache caches per-category product counts in process
// memory. Suitable for single-instance deployments and testing.
type InMemoryProductCountCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]countEntry
	ttl     time.Duration
}

// NewInMemoryProductCountCache creates an in-memory product count cache.
// A zero TTL means entries never expire and rely on explicit invalidation.
func NewInMemoryProductCountCache(ttl time.Duration) *InMemoryProductCountCache {
	return &InMemoryProductCountCache{
		entries: make(map[uuid.UUID]countEntry),
		ttl:     ttl,
	}
}

// Get returns the cached count for a category
func (c *InMemoryProductCountCache) Get(ctx context.Context, categoryID uuid.UUID) (int64, bool) {
	c.mu.RLock()
	e, exists := c.entries[categoryID]
	c.mu.RUnlock()

	if !exists {
		return 0, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, categoryID)
		c.mu.Unlock()
		return 0, false
	}
	return e.count, true
}

// Set stores the count for a category
func (c *InMemoryProductCountCache) Set(ctx context.Context, categoryID uuid.UUID, count int64) error {
	e := countEntry{count: count}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[categoryID] = e
	c.mu.Unlock()
	return nil
}

// Invalidate removes the cached count for a category
func (c *InMemoryProductCountCache) Invalidate(ctx context.Context, categoryID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, categoryID)
	c.mu.Unlock()
	return nil
}

// Size returns the number of cached entries (for testing/monitoring)
func (c *InMemoryProductCountCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ appcatalog.ProductCountCache = (*InMemoryProductCountCache)(nil)
