package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/domain/service"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
)

const (
	// DefaultBaseURL is the production FRED API endpoint
	DefaultBaseURL = "https://api.stlouisfed.org/fred"

	observationsPath = "/series/observations"

	// FRED publishes "." for dates where no value exists (holidays, gaps)
	missingValue = "."

	dateLayout = "2006-01-02"
)

var _ service.FredAPI = (*FredAPIClient)(nil)

// FredAPIClient fetches rate observations from the FRED HTTP API
type FredAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
	maxRetries int
}

// NewFredAPIClient creates a new FRED API client. The API key is supplied
// here, at construction time; the client never reads ambient credential
// state. An empty baseURL selects the production endpoint.
func NewFredAPIClient(baseURL, apiKey string, httpClient *http.Client, log logger.Logger) *FredAPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &FredAPIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     log,
		maxRetries: 3,
	}
}

// fredObservationsResponse represents the response structure from the FRED
// series/observations endpoint
type fredObservationsResponse struct {
	ObservationStart string `json:"observation_start"`
	ObservationEnd   string `json:"observation_end"`
	Count            int    `json:"count"`
	Observations     []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FetchObservations retrieves published observations for a series within
// [start, end] in ascending date order, dropping missing values
func (c *FredAPIClient) FetchObservations(ctx context.Context, seriesID string, start, end time.Time) ([]entity.Observation, error) {
	params := url.Values{}
	params.Set("observation_start", start.Format(dateLayout))
	params.Set("observation_end", end.Format(dateLayout))
	params.Set("sort_order", "asc")

	c.logger.Debug("Fetching FRED observations", map[string]interface{}{
		"series_id": seriesID,
		"start":     start.Format(dateLayout),
		"end":       end.Format(dateLayout),
	})

	return c.fetch(ctx, seriesID, params)
}

// FetchRecentObservations retrieves up to limit of the most recent published
// observations for a series, newest first. FRED applies the limit before
// missing values are dropped, so callers should ask for a few more rows than
// they strictly need.
func (c *FredAPIClient) FetchRecentObservations(ctx context.Context, seriesID string, limit int) ([]entity.Observation, error) {
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{}
	params.Set("sort_order", "desc")
	params.Set("limit", strconv.Itoa(limit))

	c.logger.Debug("Fetching recent FRED observations", map[string]interface{}{
		"series_id": seriesID,
		"limit":     limit,
	})

	return c.fetch(ctx, seriesID, params)
}

func (c *FredAPIClient) fetch(ctx context.Context, seriesID string, params url.Values) ([]entity.Observation, error) {
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	reqURL := c.baseURL + observationsPath + "?" + params.Encode()

	body, status, err := c.doWithRetry(ctx, seriesID, reqURL)
	if err != nil {
		return nil, &entity.RemoteError{SeriesID: seriesID, Err: err}
	}

	if status != http.StatusOK {
		// The body holds FRED's error message; log it but keep the key out
		// of anything user-facing by reporting only the status upstream
		c.logger.Error("FRED API returned error status", map[string]interface{}{
			"series_id": seriesID,
			"status":    status,
			"body":      string(body),
		})
		return nil, &entity.RemoteError{SeriesID: seriesID, StatusCode: status}
	}

	var fredResp fredObservationsResponse
	if err := json.Unmarshal(body, &fredResp); err != nil {
		return nil, &entity.RemoteError{
			SeriesID: seriesID,
			Err:      fmt.Errorf("failed to decode response: %w", err),
		}
	}

	observations := make([]entity.Observation, 0, len(fredResp.Observations))
	for _, obs := range fredResp.Observations {
		if obs.Value == missingValue || obs.Value == "" {
			continue
		}

		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return nil, &entity.RemoteError{
				SeriesID: seriesID,
				Err:      fmt.Errorf("failed to parse observation value %q: %w", obs.Value, err),
			}
		}

		date, err := time.Parse(dateLayout, obs.Date)
		if err != nil {
			return nil, &entity.RemoteError{
				SeriesID: seriesID,
				Err:      fmt.Errorf("failed to parse observation date %q: %w", obs.Date, err),
			}
		}

		observations = append(observations, entity.Observation{
			SeriesID: seriesID,
			Date:     date,
			Value:    value,
		})
	}

	return observations, nil
}

// doWithRetry executes the request, retrying transport failures with
// exponential backoff. HTTP error statuses are not retried here; the caller
// decides whether a failed calculation is worth repeating.
func (c *FredAPIClient) doWithRetry(ctx context.Context, seriesID, reqURL string) ([]byte, int, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Add("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				backoff := time.Duration(attempt*attempt) * time.Second
				c.logger.Warn("FRED request failed, retrying", map[string]interface{}{
					"series_id": seriesID,
					"attempt":   attempt,
					"backoff":   backoff.String(),
					"error":     err.Error(),
				})

				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				}
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"series_id": seriesID,
				"error":     closeErr.Error(),
			})
		}
		if readErr != nil {
			return nil, 0, fmt.Errorf("failed to read response body: %w", readErr)
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}
