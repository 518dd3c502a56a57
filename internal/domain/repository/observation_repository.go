// Package repository internal/domain/repository/observation_repository.go
package repository

import (
	"context"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
)

// ObservationRepository defines the interface for point-in-time rate access
type ObservationRepository interface {
	// FindAsOf returns the latest published observation at or before date,
	// searching no further back than the repository's lookback window. The
	// returned observation is never dated after the requested date.
	FindAsOf(ctx context.Context, seriesID string, date time.Time) (*entity.Observation, error)

	// FindLatest returns the most recent published observation for a series
	FindLatest(ctx context.Context, seriesID string) (*entity.Observation, error)
}
