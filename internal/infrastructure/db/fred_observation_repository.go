// Package db internal/infrastructure/db/fred_observation_repository.go
package db

import (
	"context"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/domain/repository"
	"github.com/openfiscal/refi-cost-service/internal/domain/service"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
)

const (
	// DefaultLookbackDays bounds the search backward from a target date so
	// weekends and market holidays still resolve to the prior publication
	DefaultLookbackDays = 7

	// DefaultRecentWindow caps how many of the newest rows are requested
	// when resolving the latest published value
	DefaultRecentWindow = 30
)

// FredObservationRepository implements the ObservationRepository interface by
// applying the lookback resolution policy over a remote provider
type FredObservationRepository struct {
	provider     service.FredAPI
	lookbackDays int
	recentWindow int
	logger       logger.Logger
}

// NewFredObservationRepository creates a new repository for rate observations.
// Non-positive window arguments select the defaults.
func NewFredObservationRepository(provider service.FredAPI, lookbackDays, recentWindow int, log logger.Logger) repository.ObservationRepository {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &FredObservationRepository{
		provider:     provider,
		lookbackDays: lookbackDays,
		recentWindow: recentWindow,
		logger:       log,
	}
}

// FindAsOf returns the latest published observation at or before date within
// the lookback window
func (r *FredObservationRepository) FindAsOf(ctx context.Context, seriesID string, date time.Time) (*entity.Observation, error) {
	start := date.AddDate(0, 0, -r.lookbackDays)

	r.logger.Info("Resolving point-in-time observation", map[string]interface{}{
		"series_id": seriesID,
		"target":    date.Format("2006-01-02"),
		"start":     start.Format("2006-01-02"),
	})

	observations, err := r.provider.FetchObservations(ctx, seriesID, start, date)
	if err != nil {
		r.logger.Error("Failed to fetch observations", map[string]interface{}{
			"series_id": seriesID,
			"target":    date.Format("2006-01-02"),
			"error":     err.Error(),
		})
		return nil, err
	}

	// Pick the latest-dated observation, ignoring anything the source dated
	// after the target. At most one observation exists per date, so ties are
	// impossible.
	var latest *entity.Observation
	for i := range observations {
		obs := observations[i]
		if obs.Date.After(date) {
			continue
		}
		if latest == nil || obs.Date.After(latest.Date) {
			latest = &obs
		}
	}

	if latest == nil {
		r.logger.Warn("No observation in lookback window", map[string]interface{}{
			"series_id": seriesID,
			"start":     start.Format("2006-01-02"),
			"end":       date.Format("2006-01-02"),
		})
		return nil, &entity.NotFoundError{SeriesID: seriesID, Start: start, End: date}
	}

	r.logger.Info("Observation resolved", map[string]interface{}{
		"series_id": seriesID,
		"target":    date.Format("2006-01-02"),
		"date":      latest.Date.Format("2006-01-02"),
		"value":     latest.Value,
	})

	return latest, nil
}

// FindLatest returns the most recent published observation for a series
func (r *FredObservationRepository) FindLatest(ctx context.Context, seriesID string) (*entity.Observation, error) {
	r.logger.Info("Resolving latest observation", map[string]interface{}{
		"series_id": seriesID,
	})

	observations, err := r.provider.FetchRecentObservations(ctx, seriesID, r.recentWindow)
	if err != nil {
		r.logger.Error("Failed to fetch recent observations", map[string]interface{}{
			"series_id": seriesID,
			"error":     err.Error(),
		})
		return nil, err
	}

	var latest *entity.Observation
	for i := range observations {
		obs := observations[i]
		if latest == nil || obs.Date.After(latest.Date) {
			latest = &obs
		}
	}

	if latest == nil {
		r.logger.Warn("No recent observation published", map[string]interface{}{
			"series_id": seriesID,
			"window":    r.recentWindow,
		})
		return nil, &entity.NotFoundError{SeriesID: seriesID}
	}

	r.logger.Info("Latest observation resolved", map[string]interface{}{
		"series_id": seriesID,
		"date":      latest.Date.Format("2006-01-02"),
		"value":     latest.Value,
	})

	return latest, nil
}
