// Package cache is the keyed query cache the services read through and
// invalidate after writes.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	KeyProducts   = "admin-products"
	KeyCategories = "admin-categories"
	KeyOrders     = "admin-orders"
	KeyCustomers  = "admin-customers"
	KeyCoupons    = "admin-coupons"
	KeyActivity   = "admin-activity"
	KeyStats      = "admin-stats"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]uint64
	subscribers map[int]chan string
	nextSubID   int
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
		subscribers: make(map[int]chan string),
	}
}

func (c *Cache) lookup(key string) (any, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.generations[key]
	e, ok := c.entries[key]
	if !ok {
		return nil, gen, false
	}
	if c.ttl > 0 && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, gen, false
	}
	return e.value, gen, true
}

// store keeps value only if key was not invalidated since gen was read.
func (c *Cache) store(key string, gen uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[key] != gen {
		return
	}
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Fetch returns the cached value for key or loads it with fn. Concurrent
// callers of the same key generation share one call to fn, which runs
// detached from any single caller's cancellation; a caller whose ctx ends
// stops waiting without failing the others. A load that was overtaken by
// Invalidate is returned to its callers but never cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	cached, gen, ok := c.lookup(key)
	if ok {
		if typed, ok := cached.(T); ok {
			return typed, nil
		}
	}

	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	loadCtx := context.WithoutCancel(ctx)

	results := c.group.DoChan(flightKey, func() (any, error) {
		value, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, gen, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate drops the given keys and tells subscribers about them.
// Subscribers that are not keeping up miss signals rather than block the caller.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
		c.generations[key]++
		for _, ch := range c.subscribers {
			select {
			case ch <- key:
			default:
			}
		}
	}
}

// Subscribe returns a channel of invalidated keys and a func that ends the subscription.
func (c *Cache) Subscribe() (<-chan string, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan string, 16)
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
		})
	}
}
