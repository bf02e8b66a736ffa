// Package cache holds the offer cache backends.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dealscout/backend/internal/domain"
)

var _ domain.CacheRepository = (*MemoryCache)(nil)

const (
	defaultMaxEntries = 10000
	cleanupInterval   = time.Minute
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a thread-safe in-process cache with TTL and bounded size
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]cacheEntry
	maxEntries int
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewMemoryCache creates a memory cache holding at most maxEntries values.
// A non-positive maxEntries uses the default.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	c := &MemoryCache{
		data:       make(map[string]cacheEntry),
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

// Get returns a copy of the stored bytes or ErrCacheMiss
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, domain.ErrCacheMiss
	}
	return append([]byte(nil), entry.value...), nil
}

// Set stores value under key until ttl elapses
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		c.evictOldest()
	}
	c.data[key] = cacheEntry{
		value:     append([]byte(nil), value...),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes key
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// evictOldest drops the entry closest to expiry. Caller holds the write lock.
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.data {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey = key
			oldest = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.data {
				if now.After(entry.expiresAt) {
					delete(c.data, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
