package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	cfgPath := writeConfig(t, `
server:
  port: 9090
  host: "127.0.0.1"
  mode: "debug"
database:
  path: "/tmp/reviews.db"
cache:
  ttl: "12h"
  max_stale_age: "72h"
  cleanup_interval: "30m"
sources:
  provider: "wextractor"
  api_url: "https://api.example.test/v1"
  api_key: "secret"
  google_app_id: "com.example.app"
  trustpilot_domain: "example.com"
  default_max_pages: 5
`)

	cfg, err := Load(cfgPath)
	requireNoError(t, err)

	if cfg.Server.Port != 9090 || cfg.Server.Mode != "debug" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Cache.TTLDuration() != 12*time.Hour {
		t.Fatalf("expected 12h ttl, got %s", cfg.Cache.TTLDuration())
	}
	if cfg.Cache.MaxStaleAgeDuration() != 72*time.Hour {
		t.Fatalf("expected 72h max stale age, got %s", cfg.Cache.MaxStaleAgeDuration())
	}
	if cfg.Cache.CleanupIntervalDuration() != 30*time.Minute {
		t.Fatalf("expected 30m cleanup interval, got %s", cfg.Cache.CleanupIntervalDuration())
	}
	if !cfg.Cache.StaleFallback {
		t.Fatal("expected stale fallback to default to true")
	}

	wx := cfg.Sources.WextractorConfig()
	if wx.GoogleAppID != "com.example.app" || wx.TrustpilotDomain != "example.com" || wx.AppleAppID != "" {
		t.Fatalf("unexpected wextractor targets: %+v", wx)
	}
	if wx.Client.Timeout != 30*time.Second || wx.Client.MaxRetries != 3 {
		t.Fatalf("unexpected client config: %+v", wx.Client)
	}
	if wx.Breaker.MinRequests != 3 || wx.Breaker.FailureRatio != 0.6 {
		t.Fatalf("unexpected breaker config: %+v", wx.Breaker)
	}
	if cfg.Sources.DefaultMaxPages != 5 {
		t.Fatalf("expected default_max_pages 5, got %d", cfg.Sources.DefaultMaxPages)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("REVIEWLENS_SOURCES__PROVIDER", "fixture")

	cfg, err := Load("")
	requireNoError(t, err)

	if cfg.Database.Path != "reviewlens.db" || !cfg.Database.AutoMigrate {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Cache.TTLDuration() != 24*time.Hour {
		t.Fatalf("expected 24h default ttl, got %s", cfg.Cache.TTLDuration())
	}
	if cfg.Cache.MaxStaleAgeDuration() != 0 {
		t.Fatalf("expected unbounded stale age by default, got %s", cfg.Cache.MaxStaleAgeDuration())
	}
	if cfg.Sources.Limit != 100 || cfg.Sources.DefaultMaxPages != 20 {
		t.Fatalf("unexpected source defaults: %+v", cfg.Sources)
	}
}

func TestSourcesConfig_BuildSources(t *testing.T) {
	fixtures, err := SourcesConfig{Provider: ProviderFixture}.BuildSources()
	requireNoError(t, err)
	if len(fixtures) != 3 {
		t.Fatalf("expected 3 fixture sources, got %d", len(fixtures))
	}

	cfg := SourcesConfig{
		Provider: ProviderWextractor,
		APIURL:   "https://api.example.test/v1",
		APIKey:   "secret",
		Timeout:  "5s",
	}
	adapters, err := cfg.BuildSources()
	requireNoError(t, err)
	if len(adapters) != 3 || adapters[2].Name() != "trustpilot" {
		t.Fatalf("unexpected wextractor sources: %v", adapters)
	}

	if _, err := (SourcesConfig{Provider: "scraper"}).BuildSources(); err == nil {
		t.Fatal("expected unsupported provider error")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  path: "file.db"
sources:
  provider: "fixture"
`)
	t.Setenv("REVIEWLENS_DATABASE__PATH", ":memory:")
	t.Setenv("REVIEWLENS_CACHE__TTL", "2h")
	t.Setenv("REVIEWLENS_CACHE__STALE_FALLBACK", "false")

	cfg, err := Load(cfgPath)
	requireNoError(t, err)

	if cfg.Database.Path != ":memory:" {
		t.Fatalf("expected env to override database.path, got %q", cfg.Database.Path)
	}
	if cfg.Cache.TTLDuration() != 2*time.Hour {
		t.Fatalf("expected env ttl 2h, got %s", cfg.Cache.TTLDuration())
	}
	if cfg.Cache.StaleFallback {
		t.Fatal("expected env to disable stale fallback")
	}
}

func TestLoad_InvalidValuesFailStartup(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "server port",
			yaml:    "server:\n  port: -1\nsources:\n  provider: fixture\n",
			wantErr: "invalid server.port",
		},
		{
			name:    "server mode",
			yaml:    "server:\n  mode: verbose\nsources:\n  provider: fixture\n",
			wantErr: "invalid server.mode",
		},
		{
			name:    "ttl",
			yaml:    "cache:\n  ttl: nope\nsources:\n  provider: fixture\n",
			wantErr: "invalid cache.ttl",
		},
		{
			name:    "zero ttl",
			yaml:    "cache:\n  ttl: 0s\nsources:\n  provider: fixture\n",
			wantErr: "cache.ttl must be > 0",
		},
		{
			name:    "negative cleanup interval",
			yaml:    "cache:\n  cleanup_interval: -1m\nsources:\n  provider: fixture\n",
			wantErr: "cache.cleanup_interval must be >= 0",
		},
		{
			name:    "unknown provider",
			yaml:    "sources:\n  provider: scraper\n",
			wantErr: "unsupported sources.provider",
		},
		{
			name:    "wextractor without key",
			yaml:    "sources:\n  provider: wextractor\n",
			wantErr: "sources.api_key is required",
		},
		{
			name:    "pagination depth",
			yaml:    "sources:\n  provider: fixture\n  default_max_pages: 51\n",
			wantErr: "invalid sources.default_max_pages",
		},
		{
			name:    "breaker ratio",
			yaml:    "sources:\n  provider: fixture\n  breaker_failure_ratio: 1.5\n",
			wantErr: "sources.breaker_failure_ratio",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to load config file") {
		t.Fatalf("expected config file error, got %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviewlens.yaml")
	requireNoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
