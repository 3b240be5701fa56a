package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/newthinker/stockcast/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestLoad_FromFile(t *testing.T) {
	cfgPath := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090

collector:
  provider: csv
  csv_dir: "/tmp/bars"
  timeout: 5s

forecast:
  default_ticker: AAPL
  default_horizon: 20
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Collector.Provider != "csv" || cfg.Collector.CSVDir != "/tmp/bars" {
		t.Errorf("unexpected collector config %+v", cfg.Collector)
	}
	if cfg.Collector.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Collector.Timeout)
	}
	if cfg.Forecast.DefaultTicker != "AAPL" || cfg.Forecast.DefaultHorizon != 20 {
		t.Errorf("unexpected forecast config %+v", cfg.Forecast)
	}

	// Unset keys keep their defaults
	if cfg.Forecast.DefaultStart != "2024-01-01" {
		t.Errorf("expected default start 2024-01-01, got %s", cfg.Forecast.DefaultStart)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("expected metrics defaults, got %+v", cfg.Metrics)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_POLYGON_KEY", "secret")
	cfgPath := writeConfig(t, `
collector:
  provider: polygon
  api_key: "${TEST_POLYGON_KEY}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Collector.APIKey != "secret" {
		t.Errorf("expected expanded api key, got %q", cfg.Collector.APIKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Collector.Provider != "yahoo" {
		t.Errorf("expected yahoo, got %s", cfg.Collector.Provider)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Forecast.DefaultTicker != "1299.HK" {
		t.Errorf("expected default ticker 1299.HK, got %s", cfg.Forecast.DefaultTicker)
	}
	if cfg.Forecast.DefaultHorizon != 10 {
		t.Errorf("expected default horizon 10, got %d", cfg.Forecast.DefaultHorizon)
	}
	start, err := cfg.Forecast.Start()
	if err != nil || !start.Equal(core.DefaultStart) {
		t.Errorf("expected default start %v, got %v (%v)", core.DefaultStart, start, err)
	}
	if cfg.Commentary.Enabled {
		t.Error("commentary should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func(mut func(*Config)) *Config {
		cfg := Defaults()
		mut(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr *core.Error
	}{
		{"valid config", valid(func(c *Config) {}), nil},
		{"invalid port - zero", valid(func(c *Config) { c.Server.Port = 0 }), core.ErrConfigInvalid},
		{"invalid port - too high", valid(func(c *Config) { c.Server.Port = 70000 }), core.ErrConfigInvalid},
		{"unknown provider", valid(func(c *Config) { c.Collector.Provider = "bloomberg" }), core.ErrConfigInvalid},
		{"horizon too large", valid(func(c *Config) { c.Forecast.DefaultHorizon = 61 }), core.ErrConfigInvalid},
		{"bad start date", valid(func(c *Config) { c.Forecast.DefaultStart = "01/01/2024" }), core.ErrConfigInvalid},
		{"bad log level", valid(func(c *Config) { c.Log.Level = "verbose" }), core.ErrConfigInvalid},
		{"polygon without key", valid(func(c *Config) { c.Collector.Provider = "polygon" }), core.ErrConfigMissing},
		{"csv without dir", valid(func(c *Config) { c.Collector.Provider = "csv" }), core.ErrConfigMissing},
		{"claude without key", valid(func(c *Config) { c.LLM.Provider = "claude" }), core.ErrConfigMissing},
		{"commentary without llm", valid(func(c *Config) { c.Commentary.Enabled = true }), core.ErrConfigMissing},
		{"ollama commentary", valid(func(c *Config) {
			c.LLM.Provider = "ollama"
			c.LLM.Ollama.Endpoint = "http://localhost:11434"
			c.Commentary.Enabled = true
		}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
