package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "dreams_engine.db" {
		t.Errorf("db path = %s", cfg.DBPath)
	}
	if cfg.Approval.AutoApproveConfidence != 0.85 {
		t.Errorf("auto-approve floor = %f", cfg.Approval.AutoApproveConfidence)
	}
	if cfg.CacheLimit != 1000 || cfg.HistoryLimit != 50 {
		t.Errorf("limits = %d/%d", cfg.CacheLimit, cfg.HistoryLimit)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Provider.Name != "google" {
		t.Errorf("provider = %s, want default", cfg.Provider.Name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := []byte(`
db_path: custom.db
provider:
  name: google
  model: gemini-pro
  api_key: file-key
approval:
  auto_approve_confidence: 0.9
  success_rate: 0.8
  review_floor: 0.5
cache_limit: 200
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "custom.db" {
		t.Errorf("db path = %s", cfg.DBPath)
	}
	if cfg.Approval.AutoApproveConfidence != 0.9 || cfg.Approval.ReviewFloor != 0.5 {
		t.Errorf("approval floors = %+v", cfg.Approval)
	}
	if cfg.CacheLimit != 200 {
		t.Errorf("cache limit = %d", cfg.CacheLimit)
	}
	// history_limit absent in file: zero value restored to default.
	if cfg.HistoryLimit != 50 {
		t.Errorf("history limit = %d, want default 50", cfg.HistoryLimit)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("db_path: file.db\nprovider:\n  api_key: file-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DREAMS_DB", "env.db")
	t.Setenv("DREAMS_API_KEY", "env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "env.db" {
		t.Errorf("env DREAMS_DB must win, got %s", cfg.DBPath)
	}
	if cfg.Provider.APIKey != "env-key" {
		t.Errorf("env DREAMS_API_KEY must win, got %s", cfg.Provider.APIKey)
	}
}
