// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"

	"github.com/vmunix/moviecat/internal/catalog"
	"github.com/vmunix/moviecat/internal/images"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validBackends = map[string]bool{
	"": true, "none": true, "sqlite": true, "redis": true,
}

// maxPageSize is the largest page the catalog API serves.
const maxPageSize = 250

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// API
	if c.API.APIKey == "" {
		errs = append(errs, "api.api_key: required")
	}
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("api.base_url: must be an http(s) URL, got %q", c.API.BaseURL))
		}
	}
	if c.API.Timeout < 0 {
		errs = append(errs, "api.timeout: must not be negative")
	}
	if c.API.PageSize < 0 || c.API.PageSize > maxPageSize {
		errs = append(errs, fmt.Sprintf("api.page_size: must be between 1 and %d, got %d", maxPageSize, c.API.PageSize))
	}

	// Cache
	for name, d := range map[string]int64{
		"cache.page_ttl":        int64(c.Cache.PageTTL),
		"cache.detail_ttl":      int64(c.Cache.DetailTTL),
		"cache.stale_retention": int64(c.Cache.StaleRetention),
		"cache.sweep_interval":  int64(c.Cache.SweepInterval),
	} {
		if d < 0 {
			errs = append(errs, fmt.Sprintf("%s: must not be negative", name))
		}
	}
	if c.Cache.MaxPages < 0 {
		errs = append(errs, fmt.Sprintf("cache.max_pages: must be positive, got %d", c.Cache.MaxPages))
	}
	if c.Cache.MaxDetails < 0 {
		errs = append(errs, fmt.Sprintf("cache.max_details: must be positive, got %d", c.Cache.MaxDetails))
	}

	p := c.Cache.Persistent
	switch {
	case !validBackends[p.Backend]:
		errs = append(errs, fmt.Sprintf("cache.persistent.backend: must be one of none, sqlite, redis; got %q", p.Backend))
	case p.Backend == "sqlite" && p.Path == "":
		errs = append(errs, "cache.persistent.path: required for sqlite backend")
	case p.Backend == "redis" && p.Addr == "":
		errs = append(errs, "cache.persistent.addr: required for redis backend")
	}

	// Sync
	if _, err := catalog.ParsePolicy(c.Sync.DefaultPolicy); err != nil {
		errs = append(errs, fmt.Sprintf("sync.default_policy: %v", err))
	}
	if c.Sync.DefaultRetryWait < 0 || c.Sync.MaxRetryWait < 0 {
		errs = append(errs, "sync: retry waits must not be negative")
	}
	if c.Sync.MaxRetryWait > 0 && c.Sync.DefaultRetryWait > c.Sync.MaxRetryWait {
		errs = append(errs, "sync.default_retry_wait: must not exceed sync.max_retry_wait")
	}

	// Images
	if _, err := images.ParseTier(c.Images.DefaultTier); err != nil {
		errs = append(errs, fmt.Sprintf("images.default_tier: %v", err))
	}

	return errs
}
