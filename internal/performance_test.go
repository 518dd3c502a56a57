package internal

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/openfiscal/refi-cost-service/internal/application/service"
	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/cache"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/db"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
)

// stubRateProvider serves synthetic weekday observations with a fixed delay
// per call, counting how often the upstream is hit
type stubRateProvider struct {
	delay time.Duration
	calls int64
}

func (p *stubRateProvider) FetchObservations(_ context.Context, seriesID string, start, end time.Time) ([]entity.Observation, error) {
	atomic.AddInt64(&p.calls, 1)
	time.Sleep(p.delay)

	var out []entity.Observation
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out = append(out, entity.Observation{
			SeriesID: seriesID,
			Date:     d,
			Value:    4.0 + float64(d.Day())/100.0,
		})
	}
	return out, nil
}

func (p *stubRateProvider) FetchRecentObservations(ctx context.Context, seriesID string, limit int) ([]entity.Observation, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	return p.FetchObservations(ctx, seriesID, end.AddDate(0, 0, -limit), end)
}

func TestPerformance(t *testing.T) {
	// Skip in short mode or CI
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ErrorLevel)

	// Setup the cache database
	dbPath, err := os.MkdirTemp("", "badger-perf-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(dbPath)

	badgerDB, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer badgerDB.Close()

	// Initialize repositories and services, with the stub standing in for the
	// remote API
	provider := &stubRateProvider{delay: 2 * time.Millisecond}
	repo := db.NewFredObservationRepository(provider, 0, 0, log)
	cachedRepo := cache.NewCachedObservationRepository(
		repo, cache.NewBadgerCache(badgerDB, log), time.Hour, time.Hour, log)

	rateService := service.NewRateService(cachedRepo, nil, log)
	scenarioService := service.NewScenarioService(rateService, log)

	catalog := entity.TreasuryCatalog().All()
	referenceDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	// Performance test configuration
	numEvaluations := 100
	concurrency := 10

	// Warm the cache so upstream call counts are deterministic under load
	ctx := context.Background()
	for _, s := range catalog {
		if _, err := scenarioService.Evaluate(ctx, s.ID, 1_000_000, referenceDate); err != nil {
			t.Fatalf("Failed to warm cache for %s: %v", s.ID, err)
		}
	}
	warmCalls := atomic.LoadInt64(&provider.calls)

	t.Run("Scenario Evaluation", func(t *testing.T) {
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		perWorker := numEvaluations / concurrency

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				ctx := context.Background()
				for j := 0; j < perWorker; j++ {
					s := catalog[(workerID+j)%len(catalog)]
					_, err := scenarioService.Evaluate(ctx, s.ID, 1_000_000, referenceDate)
					if err != nil {
						t.Logf("Error evaluating scenario: %v", err)
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		throughput := float64(numEvaluations) / duration.Seconds()
		t.Logf("Scenario evaluation: %d evaluations in %v (%.2f eval/sec)",
			numEvaluations, duration, throughput)

		// Every lookup under load should have been served from the cache
		loadCalls := atomic.LoadInt64(&provider.calls) - warmCalls
		if loadCalls != 0 {
			t.Errorf("Expected all lookups to hit the cache, but the upstream saw %d calls", loadCalls)
		}
	})

	t.Run("Rate Resolution", func(t *testing.T) {
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		perWorker := numEvaluations / concurrency

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				ctx := context.Background()
				for j := 0; j < perWorker; j++ {
					s := catalog[(workerID+j)%len(catalog)]
					if _, err := rateService.ResolveAsOf(ctx, s.ID, referenceDate); err != nil {
						t.Logf("Error resolving rate: %v", err)
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		throughput := float64(numEvaluations) / duration.Seconds()
		t.Logf("Rate resolution: %d resolutions in %v (%.2f res/sec)",
			numEvaluations, duration, throughput)
	})
}
