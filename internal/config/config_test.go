package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Scheduler.RefreshInterval() != 30*time.Minute {
		t.Fatalf("unexpected default refresh interval: %v", cfg.Scheduler.RefreshInterval())
	}
	if cfg.Scheduler.SearchInterval() != 6*time.Hour {
		t.Fatalf("unexpected default search interval: %v", cfg.Scheduler.SearchInterval())
	}
	if len(cfg.Sources) == 0 {
		t.Fatalf("defaults must include sources")
	}
	if cfg.Storage.ExportFile == "" {
		t.Fatalf("defaults must include an export file")
	}
	if cfg.Gemini.Model == "" {
		t.Fatalf("defaults must include a gemini model")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	raw := `
logging:
  level: debug
scheduler:
  refresh_interval_seconds: 600
  search_interval_seconds: 7200
sources:
  network_transit:
    - name: Custom Feed
      url: https://custom.example/feed
      keywords: [mqtt, botnet]
searches:
  - query: '"IoT Security" AND ("mqtt")'
    category: network_transit
`
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging level: %s", cfg.Logging.Level)
	}
	if cfg.Scheduler.RefreshInterval() != 10*time.Minute {
		t.Fatalf("unexpected refresh interval: %v", cfg.Scheduler.RefreshInterval())
	}
	if cfg.Scheduler.SearchInterval() != 2*time.Hour {
		t.Fatalf("unexpected search interval: %v", cfg.Scheduler.SearchInterval())
	}

	sources, ok := cfg.Sources["network_transit"]
	if !ok || len(sources) != 1 {
		t.Fatalf("file sources must replace defaults: %+v", cfg.Sources)
	}
	if sources[0].Name != "Custom Feed" || len(sources[0].Keywords) != 2 {
		t.Fatalf("unexpected source: %+v", sources[0])
	}

	if len(cfg.Searches) != 1 || cfg.Searches[0].Category != "network_transit" {
		t.Fatalf("unexpected searches: %+v", cfg.Searches)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(geminiAPIKeyEnv, "env-gemini-key")
	t.Setenv(googleAPIKeyEnv, "env-google-key")
	t.Setenv(googleCSEIDEnv, "env-cse-id")
	t.Setenv(databaseDSNEnv, "postgres://watch:secret@db:5432/watch")

	cfg := Load()

	if cfg.Gemini.APIKey != "env-gemini-key" {
		t.Fatalf("gemini key override missing: %s", cfg.Gemini.APIKey)
	}
	if cfg.Search.APIKey != "env-google-key" || cfg.Search.CSEID != "env-cse-id" {
		t.Fatalf("search overrides missing: %+v", cfg.Search)
	}
	if cfg.Storage.DSN != "postgres://watch:secret@db:5432/watch" {
		t.Fatalf("dsn override missing: %s", cfg.Storage.DSN)
	}
}

func TestLoadIgnoresBrokenConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(":::not yaml"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if len(cfg.Sources) == 0 {
		t.Fatalf("broken file must fall back to defaults")
	}
}
