package handler

// SeriesResponse represents one catalog entry in the series listing
type SeriesResponse struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Default bool   `json:"default,omitempty"`
}

// RateResponse represents the response for the rate endpoint
type RateResponse struct {
	SeriesID string  `json:"series_id"`
	Rate     float64 `json:"rate"`
	RateDate string  `json:"rate_date"`
}

// RateLegResponse carries one leg of a scenario independently of the other
type RateLegResponse struct {
	Available bool     `json:"available"`
	Rate      *float64 `json:"rate,omitempty"`
	RateDate  string   `json:"rate_date,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// CostResponse represents the cost block of a scenario response
type CostResponse struct {
	HistoricalAnnualCost float64 `json:"historical_annual_cost"`
	CurrentAnnualCost    float64 `json:"current_annual_cost"`
	AdditionalAnnualCost float64 `json:"additional_annual_cost"`
}

// ScenarioResponse represents the response for the cost endpoint
type ScenarioResponse struct {
	SeriesID       string          `json:"series_id"`
	SeriesLabel    string          `json:"series_label"`
	Principal      float64         `json:"principal"`
	ReferenceDate  string          `json:"reference_date"`
	Historical     RateLegResponse `json:"historical"`
	Current        RateLegResponse `json:"current"`
	RateDifference *float64        `json:"rate_difference,omitempty"`
	Cost           *CostResponse   `json:"cost,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
