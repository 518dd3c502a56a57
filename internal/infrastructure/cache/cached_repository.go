package cache

import (
	"context"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/domain/repository"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
)

const (
	// DefaultHistoricalTTL memoizes point-in-time lookups, whose source data
	// only ever changes through revisions
	DefaultHistoricalTTL = time.Hour

	// DefaultLatestTTL memoizes latest-rate lookups, which change daily
	DefaultLatestTTL = 15 * time.Minute
)

// CachedObservationRepository decorates an ObservationRepository with
// time-boxed memoization of successful resolutions. Failures are never
// cached, and a cache hit always matches what the inner repository returned
// for the same query.
type CachedObservationRepository struct {
	inner         repository.ObservationRepository
	cache         ObservationCache
	historicalTTL time.Duration
	latestTTL     time.Duration
	logger        logger.Logger
}

// NewCachedObservationRepository wraps inner with the given cache.
// Non-positive TTLs select the defaults.
func NewCachedObservationRepository(inner repository.ObservationRepository, cache ObservationCache, historicalTTL, latestTTL time.Duration, log logger.Logger) repository.ObservationRepository {
	if historicalTTL <= 0 {
		historicalTTL = DefaultHistoricalTTL
	}
	if latestTTL <= 0 {
		latestTTL = DefaultLatestTTL
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CachedObservationRepository{
		inner:         inner,
		cache:         cache,
		historicalTTL: historicalTTL,
		latestTTL:     latestTTL,
		logger:        log,
	}
}

// FindAsOf serves from cache when possible, otherwise delegates and memoizes
func (r *CachedObservationRepository) FindAsOf(ctx context.Context, seriesID string, date time.Time) (*entity.Observation, error) {
	key := AsOfKey(seriesID, date)

	if obs, ok := r.cache.Get(key); ok {
		r.logger.Debug("Cache hit", map[string]interface{}{"key": key})
		return obs, nil
	}

	obs, err := r.inner.FindAsOf(ctx, seriesID, date)
	if err != nil {
		return nil, err
	}

	if setErr := r.cache.Set(key, obs, r.historicalTTL); setErr != nil {
		// A cache write failure must not fail the resolution
		r.logger.Warn("Failed to cache observation", map[string]interface{}{
			"key":   key,
			"error": setErr.Error(),
		})
	}

	return obs, nil
}

// FindLatest serves from cache when possible, otherwise delegates and memoizes
func (r *CachedObservationRepository) FindLatest(ctx context.Context, seriesID string) (*entity.Observation, error) {
	key := LatestKey(seriesID)

	if obs, ok := r.cache.Get(key); ok {
		r.logger.Debug("Cache hit", map[string]interface{}{"key": key})
		return obs, nil
	}

	obs, err := r.inner.FindLatest(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	if setErr := r.cache.Set(key, obs, r.latestTTL); setErr != nil {
		r.logger.Warn("Failed to cache observation", map[string]interface{}{
			"key":   key,
			"error": setErr.Error(),
		})
	}

	return obs, nil
}
