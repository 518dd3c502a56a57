// Package service internal/application/service/cost_service.go
package service

import (
	"context"
	"math"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/middleware"
	"golang.org/x/sync/errgroup"
)

// CostResult holds the annual carrying cost of a principal at two rates and
// their difference. A positive AdditionalAnnualCost means today's rate
// exceeds the historical one.
type CostResult struct {
	HistoricalRate       float64 `json:"historical_rate"`
	CurrentRate          float64 `json:"current_rate"`
	HistoricalAnnualCost float64 `json:"historical_annual_cost"`
	CurrentAnnualCost    float64 `json:"current_annual_cost"`
	AdditionalAnnualCost float64 `json:"additional_annual_cost"`
}

// ComputeCost converts two annualized percentage rates and a principal into
// annual carrying costs. Pure; validating the inputs is the caller's job.
func ComputeCost(historicalRate, currentRate, principal float64) CostResult {
	historicalCost := principal * historicalRate / 100
	currentCost := principal * currentRate / 100

	return CostResult{
		HistoricalRate:       historicalRate,
		CurrentRate:          currentRate,
		HistoricalAnnualCost: historicalCost,
		CurrentAnnualCost:    currentCost,
		AdditionalAnnualCost: currentCost - historicalCost,
	}
}

// RateLeg is the outcome of one of the two independent rate lookups
type RateLeg struct {
	Observation *entity.Observation
	Err         error
}

// Resolved reports whether the leg produced a usable observation
func (l RateLeg) Resolved() bool {
	return l.Err == nil && l.Observation != nil
}

// Scenario is one refinance cost evaluation: both legs, and the cost block
// when both resolved
type Scenario struct {
	Series        entity.Series
	Principal     float64
	ReferenceDate time.Time
	Historical    RateLeg
	Current       RateLeg
	Cost          *CostResult
}

// RateDifference returns current minus historical rate in percentage points.
// The second return is false unless both legs resolved.
func (sc *Scenario) RateDifference() (float64, bool) {
	if !sc.Historical.Resolved() || !sc.Current.Resolved() {
		return 0, false
	}
	return sc.Current.Observation.Value - sc.Historical.Observation.Value, true
}

// ScenarioService evaluates refinance cost scenarios
type ScenarioService struct {
	rates  *RateService
	logger logger.Logger
}

// NewScenarioService creates a new scenario service
func NewScenarioService(rates *RateService, log logger.Logger) *ScenarioService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ScenarioService{
		rates:  rates,
		logger: log,
	}
}

// Evaluate fetches both legs concurrently and computes the cost block when
// both resolve. A failed leg is carried inside the scenario so the other leg
// is still reported; only malformed input fails the evaluation itself.
func (s *ScenarioService) Evaluate(ctx context.Context, seriesID string, principal float64, referenceDate time.Time) (*Scenario, error) {
	requestID := middleware.GetRequestID(ctx)

	series, err := s.rates.Catalog().ByID(seriesID)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(principal) || math.IsInf(principal, 0) {
		return nil, &entity.InvalidInputError{Field: "principal", Reason: "must be a finite amount"}
	}
	if principal < 0 {
		return nil, &entity.InvalidInputError{Field: "principal", Reason: "must not be negative"}
	}
	if referenceDate.IsZero() {
		return nil, &entity.InvalidInputError{Field: "date", Reason: "reference date is required"}
	}

	s.logger.Info("Evaluating refinance scenario", map[string]interface{}{
		"request_id":     requestID,
		"series_id":      series.ID,
		"principal":      principal,
		"reference_date": referenceDate.Format("2006-01-02"),
	})

	sc := &Scenario{
		Series:        series,
		Principal:     principal,
		ReferenceDate: referenceDate,
	}

	// The legs always return nil so a failed one never cancels the other;
	// each failure rides along in its own leg
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs, legErr := s.rates.ResolveAsOf(gctx, series.ID, referenceDate)
		sc.Historical = RateLeg{Observation: obs, Err: legErr}
		return nil
	})
	g.Go(func() error {
		obs, legErr := s.rates.ResolveLatest(gctx, series.ID)
		sc.Current = RateLeg{Observation: obs, Err: legErr}
		return nil
	})
	_ = g.Wait()

	if sc.Historical.Resolved() && sc.Current.Resolved() {
		cost := ComputeCost(sc.Historical.Observation.Value, sc.Current.Observation.Value, principal)
		sc.Cost = &cost

		s.logger.Info("Scenario evaluated", map[string]interface{}{
			"request_id":             requestID,
			"series_id":              series.ID,
			"historical_rate":        cost.HistoricalRate,
			"current_rate":           cost.CurrentRate,
			"additional_annual_cost": cost.AdditionalAnnualCost,
		})
	} else {
		s.logger.Warn("Scenario evaluated with unavailable leg", map[string]interface{}{
			"request_id":           requestID,
			"series_id":            series.ID,
			"historical_available": sc.Historical.Resolved(),
			"current_available":    sc.Current.Resolved(),
		})
	}

	return sc, nil
}
