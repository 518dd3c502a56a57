// Package handler internal/infrastructure/handler/series_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/openfiscal/refi-cost-service/internal/application/service"
	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/middleware"
)

// SeriesHandler handles HTTP requests for the series catalog and rate lookups
type SeriesHandler struct {
	rates  *service.RateService
	logger logger.Logger
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(rates *service.RateService, log logger.Logger) *SeriesHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SeriesHandler{
		rates:  rates,
		logger: log,
	}
}

// ListSeries handles listing the rate series catalog
func (h *SeriesHandler) ListSeries(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	all := h.rates.Catalog().All()
	resp := make([]SeriesResponse, 0, len(all))
	for _, s := range all {
		resp = append(resp, SeriesResponse{
			ID:      s.ID,
			Label:   s.Label,
			Default: s.Default,
		})
	}

	h.logger.Debug("Serving series catalog", map[string]interface{}{
		"request_id": requestID,
		"count":      len(resp),
	})

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// GetRate handles resolving a rate for a series, at a target date when the
// 'date' query parameter is given and as the latest published value otherwise
func (h *SeriesHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	vars := mux.Vars(r)
	seriesID := vars["id"]

	h.logger.Info("Handling rate request", map[string]interface{}{
		"request_id": requestID,
		"series_id":  seriesID,
	})

	var obs *entity.Observation
	var err error

	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		date, parseErr := time.Parse("2006-01-02", dateParam)
		if parseErr != nil {
			h.logger.Warn("Invalid date parameter", map[string]interface{}{
				"request_id": requestID,
				"date":       dateParam,
			})
			sendErrorResponse(w, h.logger, "Invalid date format",
				"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
			return
		}
		obs, err = h.rates.ResolveAsOf(r.Context(), seriesID, date)
	} else {
		obs, err = h.rates.ResolveLatest(r.Context(), seriesID)
	}

	if err != nil {
		respondResolutionError(w, h.logger, err, requestID)
		return
	}

	resp := RateResponse{
		SeriesID: obs.SeriesID,
		Rate:     obs.Value,
		RateDate: obs.Date.Format("2006-01-02"),
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// RegisterRoutes registers the series handler routes
func (h *SeriesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/series", h.ListSeries).Methods("GET")
	router.HandleFunc("/series/{id}/rate", h.GetRate).Methods("GET")

	h.logger.Info("Series routes registered", map[string]interface{}{
		"routes": []string{
			"GET /series",
			"GET /series/{id}/rate",
		},
	})
}

// respondResolutionError maps the error taxonomy onto HTTP statuses: invalid
// input is the caller's fault, a data gap is addressable, a remote failure
// is retryable
func respondResolutionError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	switch {
	case entity.IsInvalidInput(err):
		sendErrorResponse(w, log, "Invalid request", err.Error(), http.StatusBadRequest, requestID)
	case entity.IsNotFound(err):
		sendErrorResponse(w, log, "No observation available", err.Error(), http.StatusNotFound, requestID)
	case entity.IsRemote(err):
		sendErrorResponse(w, log, "Rate source unavailable",
			"The rate data source could not be reached. Please try again later.",
			http.StatusServiceUnavailable, requestID)
	default:
		sendErrorResponse(w, log, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			http.StatusInternalServerError, requestID)
	}
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	writeJSON(w, log, statusCode, resp)
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, log logger.Logger, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
