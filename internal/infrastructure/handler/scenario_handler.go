// Package handler internal/infrastructure/handler/scenario_handler.go
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/openfiscal/refi-cost-service/internal/application/service"
	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/middleware"
)

// Leg error kinds surfaced to the presentation layer
const (
	legErrorNotFound = "no_observation"
	legErrorRemote   = "remote_unavailable"
	legErrorInternal = "internal"
)

// ScenarioHandler handles HTTP requests for refinance cost scenarios
type ScenarioHandler struct {
	service       *service.ScenarioService
	referenceDate time.Time
	logger        logger.Logger
}

// NewScenarioHandler creates a new scenario handler. referenceDate is the
// historical comparison date used when a request does not name one.
func NewScenarioHandler(svc *service.ScenarioService, referenceDate time.Time, log logger.Logger) *ScenarioHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ScenarioHandler{
		service:       svc,
		referenceDate: referenceDate,
		logger:        log,
	}
}

// EvaluateCost handles evaluating the refinance cost of a principal for a
// series against the historical reference date
func (h *ScenarioHandler) EvaluateCost(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	vars := mux.Vars(r)
	seriesID := vars["id"]

	h.logger.Info("Handling cost scenario request", map[string]interface{}{
		"request_id": requestID,
		"series_id":  seriesID,
	})

	principalParam := r.URL.Query().Get("principal")
	if principalParam == "" {
		h.logger.Warn("Missing principal parameter", map[string]interface{}{
			"request_id": requestID,
			"series_id":  seriesID,
		})
		sendErrorResponse(w, h.logger, "Missing principal parameter",
			"The 'principal' query parameter is required", http.StatusBadRequest, requestID)
		return
	}

	principal, err := strconv.ParseFloat(principalParam, 64)
	if err != nil {
		h.logger.Warn("Invalid principal parameter", map[string]interface{}{
			"request_id": requestID,
			"principal":  principalParam,
		})
		sendErrorResponse(w, h.logger, "Invalid principal",
			"Principal must be a number in currency units", http.StatusBadRequest, requestID)
		return
	}

	referenceDate := h.referenceDate
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		parsed, parseErr := time.Parse("2006-01-02", dateParam)
		if parseErr != nil {
			h.logger.Warn("Invalid date parameter", map[string]interface{}{
				"request_id": requestID,
				"date":       dateParam,
			})
			sendErrorResponse(w, h.logger, "Invalid date format",
				"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
			return
		}
		referenceDate = parsed
	}

	sc, err := h.service.Evaluate(r.Context(), seriesID, principal, referenceDate)
	if err != nil {
		respondResolutionError(w, h.logger, err, requestID)
		return
	}

	h.logger.Info("Scenario request served", map[string]interface{}{
		"request_id":           requestID,
		"series_id":            seriesID,
		"historical_available": sc.Historical.Resolved(),
		"current_available":    sc.Current.Resolved(),
	})

	writeJSON(w, h.logger, http.StatusOK, newScenarioResponse(sc))
}

// RegisterRoutes registers the scenario handler routes
func (h *ScenarioHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/series/{id}/cost", h.EvaluateCost).Methods("GET")

	h.logger.Info("Scenario routes registered", map[string]interface{}{
		"routes": []string{
			"GET /series/{id}/cost",
		},
	})
}

func newScenarioResponse(sc *service.Scenario) ScenarioResponse {
	resp := ScenarioResponse{
		SeriesID:      sc.Series.ID,
		SeriesLabel:   sc.Series.Label,
		Principal:     sc.Principal,
		ReferenceDate: sc.ReferenceDate.Format("2006-01-02"),
		Historical:    newRateLegResponse(sc.Historical),
		Current:       newRateLegResponse(sc.Current),
	}

	if diff, ok := sc.RateDifference(); ok {
		resp.RateDifference = &diff
	}

	if sc.Cost != nil {
		resp.Cost = &CostResponse{
			HistoricalAnnualCost: sc.Cost.HistoricalAnnualCost,
			CurrentAnnualCost:    sc.Cost.CurrentAnnualCost,
			AdditionalAnnualCost: sc.Cost.AdditionalAnnualCost,
		}
	}

	return resp
}

func newRateLegResponse(leg service.RateLeg) RateLegResponse {
	if leg.Resolved() {
		rate := leg.Observation.Value
		return RateLegResponse{
			Available: true,
			Rate:      &rate,
			RateDate:  leg.Observation.Date.Format("2006-01-02"),
		}
	}

	resp := RateLegResponse{Available: false}
	switch {
	case leg.Err == nil:
		resp.Error = legErrorInternal
	case entity.IsNotFound(leg.Err):
		resp.Error = legErrorNotFound
	case entity.IsRemote(leg.Err):
		resp.Error = legErrorRemote
	default:
		resp.Error = legErrorInternal
	}

	return resp
}
