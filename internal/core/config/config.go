package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reviewlens/reviewlens/internal/source"
)

const (
	ProviderWextractor = "wextractor"
	ProviderFixture    = "fixture"
)

// Config represents the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Sources  SourcesConfig  `koanf:"sources"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Path         string `koanf:"path"` // SQLite file, or :memory:
	MaxOpenConns int    `koanf:"max_open_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// CacheConfig durations are kept as strings and parsed by Validate.
type CacheConfig struct {
	TTL             string `koanf:"ttl"`
	StaleFallback   bool   `koanf:"stale_fallback"`
	MaxStaleAge     string `koanf:"max_stale_age"`    // 0 accepts any age
	CleanupInterval string `koanf:"cleanup_interval"` // 0 disables the scheduler
}

type SourcesConfig struct {
	Provider string `koanf:"provider"` // wextractor | fixture

	APIURL           string `koanf:"api_url"`
	APIKey           string `koanf:"api_key"`
	GoogleAppID      string `koanf:"google_app_id"`
	AppleAppID       string `koanf:"apple_app_id"`
	TrustpilotDomain string `koanf:"trustpilot_domain"`

	Limit           int `koanf:"limit"`
	DefaultMaxPages int `koanf:"default_max_pages"`

	Timeout    string `koanf:"timeout"`
	MaxRetries int    `koanf:"max_retries"`

	BreakerTimeout      string  `koanf:"breaker_timeout"`
	BreakerFailureRatio float64 `koanf:"breaker_failure_ratio"`
	BreakerMinRequests  int     `koanf:"breaker_min_requests"`
}

func (c CacheConfig) TTLDuration() time.Duration {
	return mustDuration(c.TTL)
}

func (c CacheConfig) MaxStaleAgeDuration() time.Duration {
	return mustDuration(c.MaxStaleAge)
}

func (c CacheConfig) CleanupIntervalDuration() time.Duration {
	return mustDuration(c.CleanupInterval)
}

// WextractorConfig maps the sources section onto the adapter configuration.
func (c SourcesConfig) WextractorConfig() source.WextractorConfig {
	client := source.DefaultClientConfig()
	client.Timeout = mustDuration(c.Timeout)
	client.MaxRetries = c.MaxRetries

	breaker := source.DefaultBreakerConfig()
	breaker.Timeout = mustDuration(c.BreakerTimeout)
	breaker.FailureRatio = c.BreakerFailureRatio
	breaker.MinRequests = uint32(c.BreakerMinRequests)

	return source.WextractorConfig{
		APIURL:           c.APIURL,
		APIKey:           c.APIKey,
		GoogleAppID:      c.GoogleAppID,
		AppleAppID:       c.AppleAppID,
		TrustpilotDomain: c.TrustpilotDomain,
		Client:           client,
		Breaker:          breaker,
	}
}

// BuildSources constructs the adapters for the configured provider.
func (c SourcesConfig) BuildSources() ([]source.Source, error) {
	switch c.Provider {
	case ProviderFixture:
		return source.FixtureSources(), nil
	case ProviderWextractor:
		wx, err := source.NewWextractor(c.WextractorConfig())
		if err != nil {
			return nil, err
		}
		return wx.Sources(), nil
	default:
		return nil, fmt.Errorf("unsupported sources.provider %q", c.Provider)
	}
}

// mustDuration parses a value Validate has already accepted.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}

	ttl, err := parseDuration("cache.ttl", c.Cache.TTL)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("cache.ttl must be > 0")
	}
	if err := nonNegativeDuration("cache.max_stale_age", c.Cache.MaxStaleAge); err != nil {
		return err
	}
	if err := nonNegativeDuration("cache.cleanup_interval", c.Cache.CleanupInterval); err != nil {
		return err
	}

	switch c.Sources.Provider {
	case ProviderFixture:
	case ProviderWextractor:
		if strings.TrimSpace(c.Sources.APIURL) == "" {
			return fmt.Errorf("sources.api_url is required for provider %q", ProviderWextractor)
		}
		if strings.TrimSpace(c.Sources.APIKey) == "" {
			return fmt.Errorf("sources.api_key is required for provider %q", ProviderWextractor)
		}
	default:
		return fmt.Errorf("unsupported sources.provider %q", c.Sources.Provider)
	}
	if c.Sources.Limit <= 0 {
		return fmt.Errorf("sources.limit must be > 0")
	}
	if c.Sources.DefaultMaxPages < 1 || c.Sources.DefaultMaxPages > source.MaxPagesLimit {
		return fmt.Errorf("invalid sources.default_max_pages %d (must be 1-%d)", c.Sources.DefaultMaxPages, source.MaxPagesLimit)
	}
	timeout, err := parseDuration("sources.timeout", c.Sources.Timeout)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		return fmt.Errorf("sources.timeout must be > 0")
	}
	if c.Sources.MaxRetries < 0 {
		return fmt.Errorf("sources.max_retries must be >= 0")
	}
	if err := nonNegativeDuration("sources.breaker_timeout", c.Sources.BreakerTimeout); err != nil {
		return err
	}
	if c.Sources.BreakerFailureRatio <= 0 || c.Sources.BreakerFailureRatio > 1 {
		return fmt.Errorf("sources.breaker_failure_ratio must be in (0, 1]")
	}
	if c.Sources.BreakerMinRequests <= 0 {
		return fmt.Errorf("sources.breaker_min_requests must be > 0")
	}

	return nil
}

func parseDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return d, nil
}

func nonNegativeDuration(name, value string) error {
	d, err := parseDuration(name, value)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

// Load parses config from defaults, an optional YAML file and REVIEWLENS_ env vars, then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                   8080,
		"server.host":                   "0.0.0.0",
		"server.mode":                   "release",
		"database.path":                 "reviewlens.db",
		"database.max_open_conns":       4,
		"database.auto_migrate":         true,
		"cache.ttl":                     "24h",
		"cache.stale_fallback":          true,
		"cache.max_stale_age":           "0s",
		"cache.cleanup_interval":        "1h",
		"sources.provider":              ProviderWextractor,
		"sources.api_url":               "https://wextractor.com/api/v1",
		"sources.api_key":               "",
		"sources.google_app_id":         "",
		"sources.apple_app_id":          "",
		"sources.trustpilot_domain":     "",
		"sources.limit":                 source.DefaultLimit,
		"sources.default_max_pages":     source.DefaultMaxPages,
		"sources.timeout":               "30s",
		"sources.max_retries":           3,
		"sources.breaker_timeout":       "60s",
		"sources.breaker_failure_ratio": 0.6,
		"sources.breaker_min_requests":  3,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("REVIEWLENS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "REVIEWLENS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
