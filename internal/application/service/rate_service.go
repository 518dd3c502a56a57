// Package service internal/application/service/rate_service.go
package service

import (
	"context"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/domain/repository"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/middleware"
)

// RateService resolves point-in-time and current rates for catalog series.
// Inputs are validated against the catalog before any remote call happens.
type RateService struct {
	repo    repository.ObservationRepository
	catalog *entity.Catalog
	logger  logger.Logger
}

// NewRateService creates a new rate resolution service
func NewRateService(repo repository.ObservationRepository, catalog *entity.Catalog, log logger.Logger) *RateService {
	if catalog == nil {
		catalog = entity.TreasuryCatalog()
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateService{
		repo:    repo,
		catalog: catalog,
		logger:  log,
	}
}

// Catalog returns the series catalog this service resolves against
func (s *RateService) Catalog() *entity.Catalog {
	return s.catalog
}

// ResolveAsOf returns the latest published rate at or before date
func (s *RateService) ResolveAsOf(ctx context.Context, seriesID string, date time.Time) (*entity.Observation, error) {
	requestID := middleware.GetRequestID(ctx)

	if _, err := s.catalog.ByID(seriesID); err != nil {
		s.logger.Warn("Rejected unknown series", map[string]interface{}{
			"request_id": requestID,
			"series_id":  seriesID,
		})
		return nil, err
	}
	if date.IsZero() {
		return nil, &entity.InvalidInputError{Field: "date", Reason: "target date is required"}
	}

	obs, err := s.repo.FindAsOf(ctx, seriesID, date)
	if err != nil {
		s.logFailure(requestID, seriesID, err)
		return nil, err
	}

	s.logger.Info("Point-in-time rate resolved", map[string]interface{}{
		"request_id": requestID,
		"series_id":  seriesID,
		"target":     date.Format("2006-01-02"),
		"rate_date":  obs.Date.Format("2006-01-02"),
		"rate":       obs.Value,
	})

	return obs, nil
}

// ResolveLatest returns the most recent published rate for a series
func (s *RateService) ResolveLatest(ctx context.Context, seriesID string) (*entity.Observation, error) {
	requestID := middleware.GetRequestID(ctx)

	if _, err := s.catalog.ByID(seriesID); err != nil {
		s.logger.Warn("Rejected unknown series", map[string]interface{}{
			"request_id": requestID,
			"series_id":  seriesID,
		})
		return nil, err
	}

	obs, err := s.repo.FindLatest(ctx, seriesID)
	if err != nil {
		s.logFailure(requestID, seriesID, err)
		return nil, err
	}

	s.logger.Info("Latest rate resolved", map[string]interface{}{
		"request_id": requestID,
		"series_id":  seriesID,
		"rate_date":  obs.Date.Format("2006-01-02"),
		"rate":       obs.Value,
	})

	return obs, nil
}

// logFailure keeps availability gaps and remote failures distinguishable in
// the logs as well as in the error taxonomy
func (s *RateService) logFailure(requestID, seriesID string, err error) {
	fields := map[string]interface{}{
		"request_id": requestID,
		"series_id":  seriesID,
		"error":      err.Error(),
	}

	if entity.IsNotFound(err) {
		s.logger.Warn("No rate available", fields)
		return
	}
	s.logger.Error("Rate resolution failed", fields)
}
