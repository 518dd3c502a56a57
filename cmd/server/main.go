package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/openfiscal/refi-cost-service/internal/application/service"
	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/api"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/cache"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/config"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/db"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/handler"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/middleware"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

var (
	configFile string
	apiKeyFlag string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refi-cost-server",
	Short: "Interest cost service for refinanced federal debt",
	Long: `refi-cost-server resolves US Treasury rates from the FRED API and
computes annual interest cost scenarios for a refinanced principal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("refi-cost-server %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "FRED API key (used when no key file or FRED_API_KEY is set)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe() error {
	cfg, err := config.Load(configFile, apiKeyFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.FRED.APIKey == "" {
		return fmt.Errorf("no FRED API key configured: set fred.api_key_file, %s, or --api-key", config.EnvAPIKey)
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.Log.Level))
	logger.SetDefaultLogger(log)

	log.Info("Starting refi cost service", map[string]interface{}{
		"version": version,
		"addr":    cfg.Server.Addr,
	})

	// Initialize the FRED client and repository
	httpClient := &http.Client{Timeout: cfg.FRED.Timeout}
	fredClient := api.NewFredAPIClient(cfg.FRED.BaseURL, cfg.FRED.APIKey, httpClient, log)

	repo := db.NewFredObservationRepository(fredClient, cfg.FRED.LookbackDays, cfg.FRED.RecentWindow, log)

	// Wrap the repository in a cache when enabled
	if cfg.Cache.Enabled {
		obsCache, err := openCache(cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := obsCache.Close(); err != nil {
				log.Error("Error closing cache", map[string]interface{}{"error": err.Error()})
			}
		}()

		repo = cache.NewCachedObservationRepository(repo, obsCache, cfg.Cache.HistoricalTTL, cfg.Cache.LatestTTL, log)
	}

	// Initialize services
	catalog := entity.TreasuryCatalog()
	rateService := service.NewRateService(repo, catalog, log)
	scenarioService := service.NewScenarioService(rateService, log)

	referenceDate, err := cfg.ReferenceTime()
	if err != nil {
		return err
	}

	// Initialize handlers
	seriesHandler := handler.NewSeriesHandler(rateService, log)
	scenarioHandler := handler.NewScenarioHandler(scenarioService, referenceDate, log)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	seriesHandler.RegisterRoutes(router)
	scenarioHandler.RegisterRoutes(router)

	log.Info("Server listening", map[string]interface{}{"addr": cfg.Server.Addr})
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// openCache builds the configured observation cache, Badger-backed when a
// path is set, otherwise in-memory.
func openCache(cfg *config.Config, log logger.Logger) (cache.ObservationCache, error) {
	if cfg.Cache.BadgerPath == "" {
		log.Info("Using in-memory observation cache", nil)
		return cache.NewMemoryCache(), nil
	}

	dbPath := filepath.Clean(cfg.Cache.BadgerPath)
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	badgerOpts := badger.DefaultOptions(dbPath)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	log.Info("Using Badger observation cache", map[string]interface{}{"path": dbPath})
	return cache.NewBadgerCache(badgerDB, log), nil
}
