// internal/infrastructure/api/fred_api_client_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchObservations(t *testing.T) {
	// Setup a mock FRED server
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/series/observations")

		query := r.URL.Query()
		assert.Equal(t, "DGS10", query.Get("series_id"))
		assert.Equal(t, "test-key", query.Get("api_key"))
		assert.Equal(t, "json", query.Get("file_type"))
		assert.Equal(t, "2025-03-25", query.Get("observation_start"))
		assert.Equal(t, "2025-04-01", query.Get("observation_end"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"observation_start": "2025-03-25",
			"observation_end": "2025-04-01",
			"count": 4,
			"observations": [
				{"date": "2025-03-28", "value": "4.27"},
				{"date": "2025-03-29", "value": "."},
				{"date": "2025-03-31", "value": "4.23"},
				{"date": "2025-04-01", "value": "4.20"}
			]
		}`))
	}))
	defer mockServer.Close()

	client := NewFredAPIClient(mockServer.URL, "test-key", nil, nil)

	ctx := context.Background()
	start := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	observations, err := client.FetchObservations(ctx, "DGS10", start, end)
	require.NoError(t, err)

	// The "." entry is dropped, order is preserved
	require.Len(t, observations, 3)
	assert.Equal(t, 4.27, observations[0].Value)
	assert.Equal(t, 4.20, observations[2].Value)
	assert.Equal(t, "DGS10", observations[2].SeriesID)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), observations[2].Date)
}

func TestFetchRecentObservations(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "desc", query.Get("sort_order"))
		assert.Equal(t, "30", query.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"count": 3,
			"observations": [
				{"date": "2025-08-29", "value": "."},
				{"date": "2025-08-28", "value": "4.50"},
				{"date": "2025-08-27", "value": "4.48"}
			]
		}`))
	}))
	defer mockServer.Close()

	client := NewFredAPIClient(mockServer.URL, "test-key", nil, nil)

	observations, err := client.FetchRecentObservations(context.Background(), "DGS10", 30)
	require.NoError(t, err)

	// Newest published value first, holiday row dropped
	require.Len(t, observations, 2)
	assert.Equal(t, 4.50, observations[0].Value)
}

func TestFetchObservationsErrorStatus(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_code": 400, "error_message": "Bad Request. The value for variable api_key is not registered."}`))
	}))
	defer mockServer.Close()

	client := NewFredAPIClient(mockServer.URL, "bad-key", nil, nil)

	_, err := client.FetchObservations(context.Background(), "DGS10",
		time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	// Auth and service failures are remote errors, never NotFound
	require.Error(t, err)
	assert.True(t, entity.IsRemote(err))
	assert.False(t, entity.IsNotFound(err))

	var remoteErr *entity.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadRequest, remoteErr.StatusCode)
}

func TestFetchObservationsTransportError(t *testing.T) {
	// Point at a server that is already closed
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	mockServer.Close()

	client := NewFredAPIClient(mockServer.URL, "test-key", nil, nil)
	client.maxRetries = 1 // keep the test fast

	_, err := client.FetchObservations(context.Background(), "DGS10",
		time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.True(t, entity.IsRemote(err))
}

func TestFetchObservationsEmptyWindow(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"count": 2,
			"observations": [
				{"date": "2025-03-29", "value": "."},
				{"date": "2025-03-30", "value": "."}
			]
		}`))
	}))
	defer mockServer.Close()

	client := NewFredAPIClient(mockServer.URL, "test-key", nil, nil)

	observations, err := client.FetchObservations(context.Background(), "DGS10",
		time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	// An all-missing window is not an error at this layer; the repository
	// decides whether that means NotFound
	require.NoError(t, err)
	assert.Empty(t, observations)
}

func TestFetchObservationsMalformedValue(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"count": 1, "observations": [{"date": "2025-04-01", "value": "n/a"}]}`))
	}))
	defer mockServer.Close()

	client := NewFredAPIClient(mockServer.URL, "test-key", nil, nil)

	_, err := client.FetchObservations(context.Background(), "DGS10",
		time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.True(t, entity.IsRemote(err))
	assert.Contains(t, err.Error(), "n/a")
}
