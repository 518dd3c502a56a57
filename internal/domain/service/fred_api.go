package service

import (
	"context"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
)

// FredAPI defines the interface for interacting with the FRED observations API
type FredAPI interface {
	// FetchObservations retrieves published observations for a series within
	// [start, end] in ascending date order. Missing values are dropped.
	FetchObservations(ctx context.Context, seriesID string, start, end time.Time) ([]entity.Observation, error)

	// FetchRecentObservations retrieves up to limit of the most recent
	// published observations for a series, newest first
	FetchRecentObservations(ctx context.Context, seriesID string, limit int) ([]entity.Observation, error)
}
