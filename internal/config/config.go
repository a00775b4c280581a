package config

import (
	"os"
	"strconv"
	"time"

	"csvviz/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Charts  ChartConfig
	Cache   CacheConfig
}

// ServerConfig holds the listen settings of both HTTP surfaces
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// StorageConfig holds file system paths and upload limits
type StorageConfig struct {
	UploadDir      string
	StaticDir      string
	MaxUploadBytes int64
}

// ChartConfig holds rendering settings. A ColorSeed of 0 draws colours from
// the process-wide random source; Workers bounds how many columns a batch
// report renders at once.
type ChartConfig struct {
	WidthIn   float64
	HeightIn  float64
	ColorSeed int64
	Bins      int
	Workers   int
}

// CacheConfig bounds the parsed-table cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			APIPort: getEnvOrDefault("API_PORT", "8081"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Storage: StorageConfig{
			UploadDir:      getEnvOrDefault("UPLOAD_DIR", "uploads"),
			StaticDir:      getEnvOrDefault("STATIC_DIR", "static"),
			MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) << 20,
		},
		Charts: ChartConfig{
			WidthIn:   getEnvFloatOrDefault("CHART_WIDTH_IN", 10),
			HeightIn:  getEnvFloatOrDefault("CHART_HEIGHT_IN", 6),
			ColorSeed: int64(getEnvIntOrDefault("COLOR_SEED", 0)),
			Bins:      getEnvIntOrDefault("HISTOGRAM_BINS", 10),
			Workers:   getEnvIntOrDefault("REPORT_WORKERS", 4),
		},
		Cache: CacheConfig{
			Size: getEnvIntOrDefault("TABLE_CACHE_SIZE", 64),
			TTL:  getEnvDurationOrDefault("TABLE_CACHE_TTL", 5*time.Minute),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" || config.Server.APIPort == "" {
		return errors.ConfigInvalid("PORT and API_PORT must not be empty")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Storage.UploadDir == "" {
		return errors.ConfigInvalid("UPLOAD_DIR is required")
	}
	if config.Storage.StaticDir == "" {
		return errors.ConfigInvalid("STATIC_DIR is required")
	}
	if config.Storage.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Charts.WidthIn <= 0 || config.Charts.HeightIn <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	if config.Charts.Bins <= 0 || config.Charts.Workers <= 0 {
		return errors.ConfigInvalid("HISTOGRAM_BINS and REPORT_WORKERS must be positive")
	}
	if config.Cache.Size <= 0 {
		return errors.ConfigInvalid("TABLE_CACHE_SIZE must be positive")
	}
	if config.Cache.TTL < 0 {
		return errors.ConfigInvalid("TABLE_CACHE_TTL must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
