package cache

import (
	"testing"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()

	// Test initial state
	assert.Equal(t, 0, c.Size())

	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	obs := &entity.Observation{
		SeriesID: "DGS10",
		Date:     date,
		Value:    4.20,
	}
	key := AsOfKey("DGS10", date)

	// Test storing and retrieving
	assert.NoError(t, c.Set(key, obs, time.Hour))
	assert.Equal(t, 1, c.Size())

	retrieved, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, obs.Value, retrieved.Value)
	assert.Equal(t, obs.Date, retrieved.Date)

	// Test non-existent retrieval
	_, ok = c.Get(LatestKey("DGS10"))
	assert.False(t, ok)

	// Test expiration
	assert.NoError(t, c.Set(key, obs, 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get(key)
	assert.False(t, ok)

	// Test cleaning expired entries
	count := c.CleanExpired()
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, c.Size())

	// Test clearing
	assert.NoError(t, c.Set(key, obs, time.Hour))
	assert.Equal(t, 1, c.Size())
	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	c := NewMemoryCache()
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	key := AsOfKey("DGS10", date)

	obs := &entity.Observation{SeriesID: "DGS10", Date: date, Value: 4.20}
	assert.NoError(t, c.Set(key, obs, time.Hour))

	// Mutating a retrieved observation must not corrupt the cached value
	first, _ := c.Get(key)
	first.Value = 9.99

	second, _ := c.Get(key)
	assert.Equal(t, 4.20, second.Value)
}

func TestCacheKeys(t *testing.T) {
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	// Point-in-time and latest resolutions never collide
	assert.NotEqual(t, AsOfKey("DGS10", date), LatestKey("DGS10"))

	// Different targets resolve independently
	assert.NotEqual(t, AsOfKey("DGS10", date), AsOfKey("DGS10", date.AddDate(0, 0, 1)))
	assert.NotEqual(t, AsOfKey("DGS10", date), AsOfKey("DGS30", date))
}
