package cache

import (
	"container/list"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a bounded in-process cache. TTL expiry is delegated to
// go-cache; capacity is enforced by evicting the oldest entry by
// insertion time, not access time.
type MemoryCache struct {
	cache    *gocache.Cache
	capacity int

	mu    sync.Mutex
	order *list.List               // Keys in insertion order, front = oldest
	elems map[string]*list.Element // key -> order element
}

// NewMemoryCache creates a memory cache. capacity <= 0 means unbounded.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration, capacity int) *MemoryCache {
	return &MemoryCache{
		cache:    gocache.New(defaultTTL, cleanupInterval),
		capacity: capacity,
		order:    list.New(),
		elems:    make(map[string]*list.Element),
	}
}

// Get retrieves a value.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value, evicting the oldest entry when over capacity.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, exists := c.elems[key]; exists {
		c.order.Remove(el)
		delete(c.elems, key)
	} else if c.capacity > 0 && c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			oldKey := oldest.Value.(string)
			c.order.Remove(oldest)
			delete(c.elems, oldKey)
			c.cache.Delete(oldKey)
		}
	}

	c.cache.Set(key, value, ttl)
	c.elems[key] = c.order.PushBack(key)
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, exists := c.elems[key]; exists {
		c.order.Remove(el)
		delete(c.elems, key)
	}
	c.cache.Delete(key)
	return nil
}

// Clear removes all values.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
	c.order.Init()
	c.elems = make(map[string]*list.Element)
	return nil
}

// Len returns the number of tracked entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
