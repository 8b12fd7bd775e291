// Package cache holds precomputed API payloads for the diagnostics server.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NoExpiration keeps an entry until it is deleted.
const NoExpiration = gocache.NoExpiration

// Cache is a TTL cache keyed by request path.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache. A zero defaultTTL keeps entries until deleted.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	if defaultTTL == 0 {
		defaultTTL = NoExpiration
	}
	return &Cache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get retrieves a value.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// GetOrLoad returns the cached value for key, computing and storing it on
// a miss.
func (c *Cache) GetOrLoad(key string, load func() any) any {
	if v, ok := c.store.Get(key); ok {
		return v
	}
	v := load()
	c.store.Set(key, v, gocache.DefaultExpiration)
	return v
}

// Delete removes a value.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of entries, including expired ones not yet
// cleaned up.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
