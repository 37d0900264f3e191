package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Clients     ClientsConfig  `toml:"clients"`
	Forecast    ForecastConfig `toml:"forecast"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds persistence configuration.
// Type selects the backend: "file" (JSON files under Path) or "surrealdb".
type StorageConfig struct {
	Type      string `toml:"type"`
	Path      string `toml:"path"`
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD  EODHDConfig  `toml:"eodhd"`
	Gemini GeminiConfig `toml:"gemini"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// ForecastConfig holds forecast aggregation settings.
// Horizons pair a display label with the number of periods projected ahead.
type ForecastConfig struct {
	LookbackDays int             `toml:"lookback_days"`
	Horizons     []HorizonConfig `toml:"horizons"`
}

// HorizonConfig is a single forecast horizon.
type HorizonConfig struct {
	Label   string `toml:"label"`
	Periods int    `toml:"periods"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Type:      "file",
			Path:      "data",
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "folio",
			Database:  "folio",
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Forecast: ForecastConfig{
			LookbackDays: 30,
			Horizons: []HorizonConfig{
				{Label: "1 year", Periods: 12},
				{Label: "3 years", Periods: 36},
				{Label: "5 years", Periods: 60},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// toml.Unmarshal appends array-of-tables elements to a populated slice,
	// so the default horizons must be cleared before merging files.
	defaultHorizons := config.Forecast.Horizons
	config.Forecast.Horizons = nil

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if len(config.Forecast.Horizons) == 0 {
		config.Forecast.Horizons = defaultHorizons
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if t := os.Getenv("FOLIO_STORAGE_TYPE"); t != "" {
		config.Storage.Type = t
	}

	if path := os.Getenv("FOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if addr := os.Getenv("FOLIO_SURREALDB_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if key := os.Getenv("FOLIO_EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if key := os.Getenv("FOLIO_GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
