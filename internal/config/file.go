package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileOverrides is the subset of settings the CLI reads from its optional
// config file. Zero values leave the environment-derived configuration
// untouched, so a sparse file only overrides what it names.
type FileOverrides struct {
	Host                  string `mapstructure:"host" yaml:"host"`
	Port                  string `mapstructure:"port" yaml:"port"`
	DatabaseURL           string `mapstructure:"database_url" yaml:"database_url"`
	ScratchDir            string `mapstructure:"scratch_dir" yaml:"scratch_dir"`
	FetchTimeout          string `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	KaggleUsername        string `mapstructure:"kaggle_username" yaml:"kaggle_username"`
	KaggleKey             string `mapstructure:"kaggle_key" yaml:"kaggle_key"`
	KaggleCredentialsFile string `mapstructure:"kaggle_credentials_file" yaml:"kaggle_credentials_file"`
	MaxUploadBytes        int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	PreviewRows           int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	ReportStoreCap        int    `mapstructure:"report_store_cap" yaml:"report_store_cap"`
}

// DefaultConfigPath returns the well-known CLI config location
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".autoeda", "config.yaml"), nil
}

// LoadFile reads overrides through viper from path, or from the default
// location when path is empty. A missing default file yields empty
// overrides; an explicitly named file must exist.
func LoadFile(path string) (*FileOverrides, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(defaultPath))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			return &FileOverrides{}, nil
		}
	}

	var overrides FileOverrides
	if err := v.Unmarshal(&overrides); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &overrides, nil
}

// Apply merges the overrides into cfg, file values winning over the
// environment
func (o *FileOverrides) Apply(cfg *Config) error {
	if o.Host != "" {
		cfg.Server.Host = o.Host
	}
	if o.Port != "" {
		cfg.Server.Port = o.Port
	}
	if o.DatabaseURL != "" {
		cfg.Database.URL = o.DatabaseURL
	}
	if o.ScratchDir != "" {
		cfg.Storage.ScratchDir = o.ScratchDir
	}
	if o.FetchTimeout != "" {
		d, err := time.ParseDuration(o.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch_timeout: %w", err)
		}
		cfg.Fetch.Timeout = d
	}
	if o.KaggleUsername != "" {
		cfg.Kaggle.Username = o.KaggleUsername
	}
	if o.KaggleKey != "" {
		cfg.Kaggle.Key = o.KaggleKey
	}
	if o.KaggleCredentialsFile != "" {
		cfg.Kaggle.CredentialsFile = o.KaggleCredentialsFile
	}
	if o.MaxUploadBytes > 0 {
		cfg.UI.MaxUploadBytes = o.MaxUploadBytes
	}
	if o.PreviewRows > 0 {
		cfg.UI.PreviewRows = o.PreviewRows
	}
	if o.ReportStoreCap > 0 {
		cfg.UI.ReportStoreCap = o.ReportStoreCap
	}
	return nil
}

// WriteDefault writes a starter config with the default settings to path,
// creating the directory if necessary
func WriteDefault(path string) error {
	defaults := FileOverrides{
		Port:           "8080",
		ScratchDir:     filepath.Join(os.TempDir(), "autoeda"),
		FetchTimeout:   "20s",
		MaxUploadBytes: 50 << 20,
		PreviewRows:    10,
		ReportStoreCap: 32,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	b, err := yaml.Marshal(&defaults)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
