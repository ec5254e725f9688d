package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds the search provider connection settings.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	// APIKey may be a plain value or an "enc:" prefixed encrypted value
	// decrypted with the SEARCHKIT_CONFIG_KEY passphrase at load time.
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	// RatePerSec enables the client-side throttle when > 0.
	RatePerSec float64 `yaml:"rate_per_sec"`
	RateBurst  int     `yaml:"rate_burst"`
}

// BreakerConfig holds circuit breaker settings for the provider client.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// CacheConfig holds request cache settings.
type CacheConfig struct {
	// Backend selects the cache implementation: "memory" or "sqlite".
	Backend    string        `yaml:"backend"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	// Path is the database file for the sqlite backend.
	Path string `yaml:"path"`
	// SweepSchedule is a cron spec for the janitor; empty disables it.
	SweepSchedule string `yaml:"sweep_schedule"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	Output string `yaml:"output"` // "stdout", "stderr", or a file path
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "stdout" or "noop"
}

// Config is the top-level configuration for the search layer.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Breaker  BreakerConfig  `yaml:"breaker"`
	Cache    CacheConfig    `yaml:"cache"`
	Logger   LoggerConfig   `yaml:"logger"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// Defaults returns the configuration used when no file or overrides exist.
func Defaults() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:    "https://api.search.brave.com/res/v1",
			Timeout:    15 * time.Second,
			RatePerSec: 0,
			RateBurst:  1,
		},
		Breaker: BreakerConfig{
			Enabled:     false,
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			Interval:    60 * time.Second,
		},
		Cache: CacheConfig{
			Backend:       "memory",
			TTL:           time.Hour,
			MaxEntries:    1024,
			SweepSchedule: "@every 10m",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads the YAML config at path, applies environment overrides,
// decrypts secrets, and validates. A missing file is not an error; defaults
// plus environment are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if passphrase := os.Getenv("SEARCHKIT_CONFIG_KEY"); passphrase != "" {
		if err := decryptSecrets(cfg, passphrase); err != nil {
			return nil, fmt.Errorf("decrypt secrets: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps SEARCHKIT_* (and BRAVE_API_KEY) env vars to config
// fields. Environment values win over file values.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BRAVE_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("SEARCHKIT_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("SEARCHKIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Provider.Timeout = d
		}
	}
	if v := os.Getenv("SEARCHKIT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("SEARCHKIT_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("SEARCHKIT_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.MaxEntries = n
		}
	}
	if v := os.Getenv("SEARCHKIT_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("SEARCHKIT_LOG_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
}

// Validate checks configuration consistency. A missing API key is not a
// load-time error: the provider client reports it as a credential error on
// first use, so a host can boot without one configured.
func Validate(cfg *Config) error {
	if cfg.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url must not be empty")
	}
	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be positive")
	}
	switch cfg.Cache.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", "memory", "sqlite", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "sqlite" && cfg.Cache.Path == "" {
		return fmt.Errorf("cache.path is required for the sqlite backend")
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if cfg.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive")
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logger.format must be %q or %q", "text", "json")
	}
	return nil
}

// decryptSecrets finds "enc:..." values in credentials and decrypts them.
func decryptSecrets(cfg *Config, passphrase string) error {
	if strings.HasPrefix(cfg.Provider.APIKey, "enc:") {
		decrypted, err := DecryptValue(strings.TrimPrefix(cfg.Provider.APIKey, "enc:"), passphrase)
		if err != nil {
			return fmt.Errorf("provider api_key: %w", err)
		}
		cfg.Provider.APIKey = decrypted
	}
	return nil
}
