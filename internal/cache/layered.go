package cache

import "time"

// LayeredCache combines the bounded memory cache with an optional disk
// layer. Memory misses fall through to disk and promote on hit.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache builds the standard memory+disk stack. An empty
// diskDir disables the disk layer.
func NewLayeredCache(memoryTTL time.Duration, capacity int, diskDir string, diskTTL time.Duration) *LayeredCache {
	lc := &LayeredCache{
		memory: NewMemoryCache(memoryTTL, time.Minute, capacity),
	}
	if diskDir != "" {
		lc.disk = NewDiskCache(diskDir, diskTTL)
	}
	return lc
}

// Get checks memory first, then disk, promoting disk hits.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}
	if c.disk != nil {
		if val, found := c.disk.Get(key); found {
			_ = c.memory.Set(key, val, 0)
			return val, true
		}
	}
	return nil, false
}

// Set writes through to both layers.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if c.disk != nil {
		return c.disk.Set(key, value, ttl)
	}
	return nil
}

// Delete removes the key from both layers.
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	if c.disk != nil {
		return c.disk.Delete(key)
	}
	return nil
}

// Clear empties both layers.
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	if c.disk != nil {
		return c.disk.Clear()
	}
	return nil
}
