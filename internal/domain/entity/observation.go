package entity

import (
	"time"
)

// Observation is a single published value for an interest-rate series: the
// annualized percentage rate and the calendar date it was published for
type Observation struct {
	SeriesID string    `json:"series_id"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
}
