// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	API    APIConfig    `toml:"api"`
	Cache  CacheConfig  `toml:"cache"`
	Sync   SyncConfig   `toml:"sync"`
	Images ImagesConfig `toml:"images"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// APIConfig configures the upstream catalog API.
type APIConfig struct {
	BaseURL  string        `toml:"base_url"`
	APIKey   string        `toml:"api_key"`
	Timeout  time.Duration `toml:"timeout"`
	PageSize int           `toml:"page_size"`
}

type CacheConfig struct {
	PageTTL        time.Duration    `toml:"page_ttl"`
	DetailTTL      time.Duration    `toml:"detail_ttl"`
	MaxPages       int              `toml:"max_pages"`
	MaxDetails     int              `toml:"max_details"`
	StaleRetention time.Duration    `toml:"stale_retention"`
	SweepInterval  time.Duration    `toml:"sweep_interval"`
	Persistent     PersistentConfig `toml:"persistent"`
}

// PersistentConfig selects the tier behind the in-memory cache.
type PersistentConfig struct {
	Backend  string `toml:"backend"` // "none", "sqlite" or "redis"
	Path     string `toml:"path"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type SyncConfig struct {
	DefaultPolicy    string        `toml:"default_policy"`
	DefaultRetryWait time.Duration `toml:"default_retry_wait"`
	MaxRetryWait     time.Duration `toml:"max_retry_wait"`
}

type ImagesConfig struct {
	BaseURL     string   `toml:"base_url"`
	DefaultTier string   `toml:"default_tier"`
	SizedHosts  []string `toml:"sized_hosts"`
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and
// applies defaults. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://api.kinopoisk.dev/v1.4"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = 20
	}

	if c.Cache.PageTTL == 0 {
		c.Cache.PageTTL = time.Hour
	}
	if c.Cache.DetailTTL == 0 {
		c.Cache.DetailTTL = 24 * time.Hour
	}
	if c.Cache.MaxPages == 0 {
		c.Cache.MaxPages = 256
	}
	if c.Cache.MaxDetails == 0 {
		c.Cache.MaxDetails = 1024
	}
	if c.Cache.StaleRetention == 0 {
		c.Cache.StaleRetention = 7 * 24 * time.Hour
	}
	if c.Cache.SweepInterval == 0 {
		c.Cache.SweepInterval = 10 * time.Minute
	}
	p := &c.Cache.Persistent
	if p.Backend == "" {
		p.Backend = "sqlite"
	}
	if p.Backend == "sqlite" && p.Path == "" {
		p.Path = "./data/moviecat.db"
	}
	if p.Backend == "redis" && p.Prefix == "" {
		p.Prefix = "moviecat:"
	}

	if c.Sync.DefaultPolicy == "" {
		c.Sync.DefaultPolicy = "cache-first"
	}
	if c.Sync.DefaultRetryWait == 0 {
		c.Sync.DefaultRetryWait = time.Second
	}
	if c.Sync.MaxRetryWait == 0 {
		c.Sync.MaxRetryWait = 10 * time.Second
	}

	if c.Images.DefaultTier == "" {
		c.Images.DefaultTier = "medium"
	}
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands environment references in content. Unset
// variables without a default are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		}

		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
