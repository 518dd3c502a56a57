package cache

import (
	"sync"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
)

type memoryEntry struct {
	observation entity.Observation
	expiresAt   time.Time
}

// MemoryCache is a thread-safe in-memory TTL cache for observations
type MemoryCache struct {
	entries map[string]memoryEntry
	mutex   sync.RWMutex
}

// NewMemoryCache creates an empty in-memory observation cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves an observation if present and not expired
func (c *MemoryCache) Get(key string) (*entity.Observation, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	obs := entry.observation
	return &obs, true
}

// Set stores an observation under key for the given TTL
func (c *MemoryCache) Set(key string, obs *entity.Observation, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = memoryEntry{
		observation: *obs,
		expiresAt:   time.Now().Add(ttl),
	}

	return nil
}

// Close is a no-op for the in-memory cache
func (c *MemoryCache) Close() error {
	return nil
}

// Size returns the number of entries, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// CleanExpired removes expired entries and returns how many were dropped
func (c *MemoryCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := time.Now()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			count++
		}
	}

	return count
}

// Clear removes all entries
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]memoryEntry)
}
