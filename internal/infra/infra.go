// Package infra provides shared infrastructure used by the data sources:
// a TTL cache and a request rate limiter.
package infra

import (
	"context"
	"time"

	"github.com/alphadose/haxmap"
	"golang.org/x/time/rate"
)

// --- TTL cache ---

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a concurrent in-memory cache with a default TTL.
type Cache[V any] struct {
	entries *haxmap.Map[string, cacheEntry[V]]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given default TTL.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: haxmap.New[string, cacheEntry[V]](),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value, or false when missing or expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	e, ok := c.entries.Get(key)
	if !ok || c.now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.entries.Set(key, cacheEntry[V]{value: value, expiresAt: c.now().Add(ttl)})
}

// Invalidate removes a key.
func (c *Cache[V]) Invalidate(key string) {
	c.entries.Del(key)
}

// Flush removes every entry.
func (c *Cache[V]) Flush() {
	c.deleteWhere(func(cacheEntry[V]) bool { return true })
}

// Cleanup removes expired entries and returns how many were dropped.
func (c *Cache[V]) Cleanup() int {
	now := c.now()
	return c.deleteWhere(func(e cacheEntry[V]) bool { return now.After(e.expiresAt) })
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	return int(c.entries.Len())
}

func (c *Cache[V]) deleteWhere(match func(cacheEntry[V]) bool) int {
	var keys []string
	c.entries.ForEach(func(k string, e cacheEntry[V]) bool {
		if match(e) {
			keys = append(keys, k)
		}
		return true
	})
	if len(keys) > 0 {
		c.entries.Del(keys...)
	}
	return len(keys)
}

// --- Rate limiter ---

// RateLimiter spaces outbound requests to a remote service.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows perSecond requests per second with the given burst.
// A non-positive perSecond disables limiting.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may proceed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed right now.
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}
