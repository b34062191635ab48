package cache

import "sync"

// Cache stores values derived from the dataset so they are computed once.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	GetOrCompute(key string, compute func() any) any
}

// InMemoryCache is a thread-safe in-memory cache.
type InMemoryCache struct {
	mu    sync.RWMutex
	items map[string]any
}

// NewInMemoryCache creates a new instance of InMemoryCache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		items: make(map[string]any),
	}
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, found := c.items[key]
	return item, found
}

// Set adds a value to the cache, overwriting an existing one if present.
func (c *InMemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// GetOrCompute returns the cached value for key, calling compute and storing
// its result on a miss. Concurrent misses on the same key may each call
// compute; the first stored value is kept and returned to all of them.
func (c *InMemoryCache) GetOrCompute(key string, compute func() any) any {
	if v, found := c.Get(key); found {
		return v
	}

	v := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, found := c.items[key]; found {
		return existing
	}
	c.items[key] = v
	return v
}

// Len reports the number of cached entries.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
