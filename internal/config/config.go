package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Fetch    FetchConfig
	Kaggle   KaggleConfig
	Storage  StorageConfig
	Database DatabaseConfig
	UI       UIConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Host string
	Port string
}

// FetchConfig bounds direct-URL fetches
type FetchConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}

// KaggleConfig holds dataset-service settings. Username and Key are an
// optional environment credential; the credentials file is the persisted
// form and wins when both exist.
type KaggleConfig struct {
	Username        string
	Key             string
	CredentialsFile string // empty means the well-known ~/.kaggle/kaggle.json
	BaseURL         string
	Concurrency     int
	ListingCacheCap int
}

// StorageConfig holds scratch-directory settings
type StorageConfig struct {
	ScratchDir    string
	EnableCleanup bool
	CleanupAfter  time.Duration
}

// DatabaseConfig holds the optional run-history database
type DatabaseConfig struct {
	URL string // empty keeps history in memory
}

// UIConfig holds presentation-layer settings
type UIConfig struct {
	MaxUploadBytes int64
	ReportStoreCap int
	PreviewRows    int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnvOrDefault("HOST", ""),
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Fetch: FetchConfig{
			Timeout:  getEnvDurationOrDefault("FETCH_TIMEOUT", 20*time.Second),
			MaxBytes: getEnvInt64OrDefault("FETCH_MAX_BYTES", 100<<20),
		},
		Kaggle: KaggleConfig{
			Username:        getEnvOrDefault("KAGGLE_USERNAME", ""),
			Key:             getEnvOrDefault("KAGGLE_KEY", ""),
			CredentialsFile: getEnvOrDefault("KAGGLE_CREDENTIALS_FILE", ""),
			BaseURL:         getEnvOrDefault("KAGGLE_BASE_URL", "https://www.kaggle.com/api/v1"),
			Concurrency:     getEnvIntOrDefault("KAGGLE_DOWNLOAD_CONCURRENCY", 4),
			ListingCacheCap: getEnvIntOrDefault("LISTING_CACHE_CAP", 16),
		},
		Storage: StorageConfig{
			ScratchDir:    getEnvOrDefault("SCRATCH_DIR", filepath.Join(os.TempDir(), "autoeda")),
			EnableCleanup: getEnvBoolOrDefault("SCRATCH_CLEANUP", true),
			CleanupAfter:  getEnvDurationOrDefault("SCRATCH_CLEANUP_AFTER", 24*time.Hour),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		UI: UIConfig{
			MaxUploadBytes: getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 50<<20),
			ReportStoreCap: getEnvIntOrDefault("REPORT_STORE_CAP", 32),
			PreviewRows:    getEnvIntOrDefault("PREVIEW_ROWS", 10),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if config.Fetch.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if config.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("FETCH_MAX_BYTES must be positive")
	}
	if config.Kaggle.Concurrency < 1 {
		return fmt.Errorf("KAGGLE_DOWNLOAD_CONCURRENCY must be at least 1")
	}
	if config.Kaggle.ListingCacheCap < 1 {
		return fmt.Errorf("LISTING_CACHE_CAP must be at least 1")
	}
	if config.UI.ReportStoreCap < 1 {
		return fmt.Errorf("REPORT_STORE_CAP must be at least 1")
	}
	if config.UI.PreviewRows < 1 {
		return fmt.Errorf("PREVIEW_ROWS must be at least 1")
	}
	return nil
}

// EnvCredentialSet reports whether both environment credential halves are set
func (c KaggleConfig) EnvCredentialSet() bool {
	return c.Username != "" && c.Key != ""
}

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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
