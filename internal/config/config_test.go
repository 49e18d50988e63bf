package config

import (
	"testing"
	"time"
)

// TestLoadDefaults tests that defaults apply with a clean environment
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 20*time.Second {
		t.Errorf("Expected default fetch timeout 20s, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Kaggle.BaseURL != "https://www.kaggle.com/api/v1" {
		t.Errorf("Unexpected default base URL %s", cfg.Kaggle.BaseURL)
	}
	if cfg.Kaggle.ListingCacheCap != 16 {
		t.Errorf("Expected default listing cache cap 16, got %d", cfg.Kaggle.ListingCacheCap)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Expected empty database URL, got %s", cfg.Database.URL)
	}
}

// TestLoadOverrides tests environment overrides
func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("LISTING_CACHE_CAP", "2")
	t.Setenv("KAGGLE_USERNAME", "alice")
	t.Setenv("KAGGLE_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("Expected port 9999, got %s", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("Expected fetch timeout 5s, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Kaggle.ListingCacheCap != 2 {
		t.Errorf("Expected listing cache cap 2, got %d", cfg.Kaggle.ListingCacheCap)
	}
	if !cfg.Kaggle.EnvCredentialSet() {
		t.Error("Expected environment credential to be detected")
	}
}

// TestLoadRejectsInvalid tests validation of final values
func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("FETCH_TIMEOUT", "-1s")

	if _, err := Load(); err == nil {
		t.Error("Expected error for negative fetch timeout")
	}
}

// TestEnvCredentialSet tests that a half-set credential does not count
func TestEnvCredentialSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAGGLE_USERNAME", "alice")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Kaggle.EnvCredentialSet() {
		t.Error("Expected username without key to not count as a credential")
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "FETCH_TIMEOUT", "FETCH_MAX_BYTES",
		"KAGGLE_USERNAME", "KAGGLE_KEY", "KAGGLE_CREDENTIALS_FILE",
		"KAGGLE_BASE_URL", "KAGGLE_DOWNLOAD_CONCURRENCY", "LISTING_CACHE_CAP",
		"SCRATCH_DIR", "SCRATCH_CLEANUP", "SCRATCH_CLEANUP_AFTER",
		"DATABASE_URL", "MAX_UPLOAD_BYTES", "REPORT_STORE_CAP", "PREVIEW_ROWS",
	} {
		t.Setenv(key, "")
	}
}
