package bridge

import (
	"sync"
	"time"
)

// ExpiringCache caches a single value for a fixed TTL and recomputes it
// synchronously on expiry.
type ExpiringCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	fill    func() (T, error)
	value   T
	fetched time.Time
	valid   bool
}

// NewExpiringCache creates a cache that fills itself with the given
// function.
func NewExpiringCache[T any](ttl time.Duration, fill func() (T, error)) *ExpiringCache[T] {
	return &ExpiringCache[T]{ttl: ttl, fill: fill}
}

// Value returns the cached value, refreshing it first when expired. A
// failed refresh leaves the cache empty and returns the error.
func (c *ExpiringCache[T]) Value() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && time.Since(c.fetched) < c.ttl {
		return c.value, nil
	}

	value, err := c.fill()
	if err != nil {
		var zero T
		c.valid = false
		return zero, err
	}

	c.value = value
	c.fetched = time.Now()
	c.valid = true
	return value, nil
}

// Invalidate drops the cached value.
func (c *ExpiringCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	var zero T
	c.value = zero
}
