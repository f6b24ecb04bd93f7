package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// TTLCache keeps rendered responses in process memory until they expire.
// Writes do not invalidate it. It is not shared between instances.
type TTLCache struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns the value stored under key while it is still fresh.
func (c *TTLCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.data[key]
	if !ok {
		return nil, false
	}

	if c.now().After(item.expiresAt) {
		delete(c.data, key)
		return nil, false
	}

	return item.value, true
}

// Set stores value for ttl and prunes expired entries on the way.
func (c *TTLCache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	for k, item := range c.data {
		if now.After(item.expiresAt) {
			delete(c.data, k)
		}
	}

	c.data[key] = entry{value: value, expiresAt: now.Add(ttl)}
}
