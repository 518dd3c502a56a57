package cache

import (
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
)

// ObservationCache is a TTL'd store for resolved observations.
// Implementations must be safe for concurrent use. A cache miss, including
// one caused by a backend failure, only means the remote source is asked
// again; it never changes what a resolution returns.
type ObservationCache interface {
	Get(key string) (*entity.Observation, bool)
	Set(key string, obs *entity.Observation, ttl time.Duration) error
	Close() error
}

// AsOfKey builds the cache key for a point-in-time resolution. The target
// date is part of the key; the observation's own date may be earlier.
func AsOfKey(seriesID string, date time.Time) string {
	return "asof:" + seriesID + ":" + date.Format("2006-01-02")
}

// LatestKey builds the cache key for a latest-observation resolution
func LatestKey(seriesID string) string {
	return "latest:" + seriesID
}
