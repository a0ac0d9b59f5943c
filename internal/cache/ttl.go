package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// TTL is a simple in-memory cache with TTL. Keys are strings, values are []byte (e.g. JSON).
type TTL struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

type item struct {
	data []byte
	exp  time.Time
}

var _ Store = (*TTL)(nil)

// New returns a new TTL cache with the given duration. After duration, entries expire.
func New(ttl time.Duration) *TTL {
	if ttl <= 0 {
		ttl = time.Second
	}
	c := &TTL{items: make(map[string]item), ttl: ttl, stop: make(chan struct{})}
	go c.cleanup()
	return c
}

func (c *TTL) cleanup() {
	tick := time.NewTicker(c.ttl / 2)
	defer tick.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-tick.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.items {
				if v.exp.Before(now) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Close detiene la limpieza en segundo plano.
func (c *TTL) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Get returns the value for key if present and not expired.
func (c *TTL) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || it.exp.Before(time.Now()) {
		return nil, false
	}
	return it.data, true
}

// Set stores the value for key with the cache TTL.
func (c *TTL) Set(_ context.Context, key string, value []byte) {
	exp := time.Now().Add(c.ttl)
	c.mu.Lock()
	c.items[key] = item{data: value, exp: exp}
	c.mu.Unlock()
}

// DeletePrefix removes all keys that start with prefix (e.g. "reportes:").
func (c *TTL) DeletePrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
