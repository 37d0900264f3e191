// Package app wires configuration, storage, clients, and services into the
// shared application core used by cmd/folio-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/folio/internal/clients/eodhd"
	"github.com/bobmcallan/folio/internal/clients/gemini"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/forecast"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/ledger"
	"github.com/bobmcallan/folio/internal/services/report"
	"github.com/bobmcallan/folio/internal/services/valuation"
	"github.com/bobmcallan/folio/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	PriceClient      interfaces.PriceClient
	GeminiClient     interfaces.GeminiClient
	LedgerService    interfaces.LedgerService
	ValuationService interfaces.ValuationService
	ReportService    interfaces.ReportService
	Horizons         []models.Horizon
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: explicit path, FOLIO_CONFIG, binary dir, then the
	// development fallback.
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Type == storage.BackendFile && config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var priceClient interfaces.PriceClient
	if config.Clients.EODHD.APIKey != "" {
		priceClient = eodhd.NewClient(config.Clients.EODHD.APIKey,
			eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("EODHD API key not configured - pricing and forecasts will be unavailable")
	}

	var geminiClient interfaces.GeminiClient
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			geminiClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - portfolio narratives will be unavailable")
	}

	horizons := make([]models.Horizon, 0, len(config.Forecast.Horizons))
	for _, h := range config.Forecast.Horizons {
		horizons = append(horizons, models.Horizon{Label: h.Label, Periods: h.Periods})
	}

	ledgerService := ledger.NewService(storageManager, priceClient, logger)
	valuationService := valuation.NewService(storageManager, priceClient, forecast.NewTrendForecaster(), config.Forecast.LookbackDays, logger)
	reportService := report.NewService(valuationService, geminiClient, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		PriceClient:      priceClient,
		GeminiClient:     geminiClient,
		LedgerService:    ledgerService,
		ValuationService: valuationService,
		ReportService:    reportService,
		Horizons:         horizons,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
