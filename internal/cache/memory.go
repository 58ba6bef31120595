package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	cachedAt  time.Time
	expiresAt time.Time
}

// Unbounded sizes a Memory that never evicts live entries; only expiry
// removes them
const Unbounded = -1

// Memory is an in-process TTL cache bounded to maxSize entries. When full,
// the oldest entry is evicted. A zero size stores nothing. Expired entries
// are swept periodically.
type Memory struct {
	entries   map[string]memoryEntry
	mutex     sync.RWMutex
	maxSize   int
	hitCount  int64
	missCount int64
	stopChan  chan struct{}
	stopOnce  sync.Once
	now       func() time.Time
}

// NewMemory creates a memory cache and starts its cleanup goroutine
func NewMemory(maxSize int) *Memory {
	c := &Memory{
		entries:  make(map[string]memoryEntry),
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
	go c.cleanup(time.Minute)
	return c
}

// Get returns a copy of the stored value
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists || c.now().After(entry.expiresAt) {
		c.missCount++
		return nil, false, nil
	}

	c.hitCount++
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

// Set stores value for ttl
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.maxSize == 0 {
		return nil
	}

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	now := c.now()
	c.entries[key] = memoryEntry{value: stored, cachedAt: now, expiresAt: now.Add(ttl)}
	return nil
}

// Delete removes keys
func (c *Memory) Delete(_ context.Context, keys ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix
func (c *Memory) DeletePrefix(_ context.Context, prefix string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Stats returns cache statistics
func (c *Memory) Stats() map[string]interface{} {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	total := c.hitCount + c.missCount
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(c.hitCount) / float64(total)
	}

	return map[string]interface{}{
		"entries":    len(c.entries),
		"max_size":   c.maxSize,
		"hit_count":  c.hitCount,
		"miss_count": c.missCount,
		"hit_ratio":  hitRatio,
	}
}

// Close stops the cleanup goroutine
func (c *Memory) Close() error {
	c.stopOnce.Do(func() { close(c.stopChan) })
	return nil
}

func (c *Memory) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.cachedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *Memory) sweep() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *Memory) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopChan:
			return
		}
	}
}
