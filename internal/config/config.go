package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region config

// ProviderConfig selects and credentials the inference backend.
type ProviderConfig struct {
	Name   string `yaml:"name"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ApprovalConfig carries the routing-gate floors.
type ApprovalConfig struct {
	AutoApproveConfidence float64 `yaml:"auto_approve_confidence"`
	SuccessRate           float64 `yaml:"success_rate"`
	ReviewFloor           float64 `yaml:"review_floor"`
}

// Config is the engine's file configuration.
type Config struct {
	DBPath       string         `yaml:"db_path"`
	Provider     ProviderConfig `yaml:"provider"`
	Approval     ApprovalConfig `yaml:"approval"`
	CacheLimit   int            `yaml:"cache_limit"`
	HistoryLimit int            `yaml:"history_limit"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DBPath: "dreams_engine.db",
		Provider: ProviderConfig{
			Name:  "google",
			Model: "gemini-pro",
		},
		Approval: ApprovalConfig{
			AutoApproveConfidence: 0.85,
			SuccessRate:           0.8,
			ReviewFloor:           0.4,
		},
		CacheLimit:   1000,
		HistoryLimit: 50,
	}
}

// #endregion config

// #region load

// Load reads a YAML config file, falling back to defaults when the path
// is empty or the file does not exist. Environment variables DREAMS_DB
// and DREAMS_API_KEY override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults apply
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.DBPath = envOr("DREAMS_DB", cfg.DBPath)
	cfg.Provider.APIKey = envOr("DREAMS_API_KEY", cfg.Provider.APIKey)

	if cfg.CacheLimit <= 0 {
		cfg.CacheLimit = Default().CacheLimit
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = Default().HistoryLimit
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load
