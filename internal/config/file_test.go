package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteDefaultAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	overrides, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if overrides.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", overrides.Port)
	}
	if overrides.FetchTimeout != "20s" {
		t.Errorf("Expected default fetch timeout 20s, got %s", overrides.FetchTimeout)
	}
	if overrides.PreviewRows != 10 {
		t.Errorf("Expected default preview rows 10, got %d", overrides.PreviewRows)
	}
}

func TestLoadFileExplicitMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for a missing explicit config file")
	}
}

func TestLoadFileSparse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9001\"\n"), 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	overrides, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if overrides.Port != "9001" {
		t.Errorf("Expected port 9001, got %s", overrides.Port)
	}
	if overrides.FetchTimeout != "" {
		t.Errorf("Expected unset fetch timeout, got %s", overrides.FetchTimeout)
	}
}

func TestApplyOverrides(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	overrides := &FileOverrides{
		Port:           "9001",
		FetchTimeout:   "7s",
		KaggleUsername: "casey",
		KaggleKey:      "k3y",
	}
	if err := overrides.Apply(cfg); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Server.Port != "9001" {
		t.Errorf("Expected port 9001, got %s", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 7*time.Second {
		t.Errorf("Expected fetch timeout 7s, got %s", cfg.Fetch.Timeout)
	}
	if !cfg.Kaggle.EnvCredentialSet() {
		t.Error("Expected credential from file to register")
	}
	if cfg.UI.PreviewRows != 10 {
		t.Errorf("Zero override must leave preview rows at the default, got %d", cfg.UI.PreviewRows)
	}
}

func TestApplyRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	overrides := &FileOverrides{FetchTimeout: "soon"}
	if err := overrides.Apply(cfg); err == nil {
		t.Fatal("Expected error for an invalid duration")
	}
}
