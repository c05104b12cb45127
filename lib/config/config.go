// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petershepherd/ardrive-cli/lib/cache"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/version"
)

// EnvVar names the environment variable that points at the config
// file.
const EnvVar = "ARDRIVE_CONFIG"

// Config is the master configuration for the ardrive CLI.
type Config struct {
	// Gateway configures the ledger gateway the client talks to.
	Gateway GatewayConfig `yaml:"gateway"`

	// App identifies this client in the tags of every written record.
	App AppConfig `yaml:"app"`

	// Tips configures the community tip attached to uploads.
	Tips TipsConfig `yaml:"tips"`

	// Wallet configures the signing wallet.
	Wallet WalletConfig `yaml:"wallet"`

	// Cache configures the read-side snapshot cache.
	Cache CacheConfig `yaml:"cache"`
}

// GatewayConfig configures the ledger gateway endpoint.
type GatewayConfig struct {
	// URL is the gateway's base URL.
	// Default: https://arweave.net
	URL string `yaml:"url"`

	// Timeout bounds each HTTP request, as a Go duration string.
	// Default: 30s
	Timeout string `yaml:"timeout"`
}

// AppConfig configures the App-Name and App-Version tags stamped on
// written records.
type AppConfig struct {
	// Name is the App-Name tag value.
	// Default: ArDrive-CLI
	Name string `yaml:"name"`

	// Version is the App-Version tag value.
	// Default: the build's own version.
	Version string `yaml:"version"`
}

// TipsConfig configures community tips.
type TipsConfig struct {
	// Disabled turns community tips off entirely. Uploads then submit
	// no tip transfer.
	// Default: false
	Disabled bool `yaml:"disabled"`

	// Contract overrides the community token contract transaction ID.
	// Empty selects the well-known community contract.
	Contract string `yaml:"contract"`

	// MinimumWinston overrides the tip floor in winston. Zero selects
	// the built-in floor.
	MinimumWinston int64 `yaml:"minimum_winston"`
}

// WalletConfig configures the signing wallet.
type WalletConfig struct {
	// File is the wallet keyfile path: a plaintext JWK or an
	// age-sealed one. Commands that sign require it; read-only
	// commands run without a wallet.
	File string `yaml:"file"`
}

// CacheConfig configures the snapshot cache for list operations.
type CacheConfig struct {
	// Dir is the cache root directory. Empty disables the cache.
	// Default: ~/.cache/ardrive
	Dir string `yaml:"dir"`

	// Compression is the codec for new entries: none, lz4, or zstd.
	// Default: zstd
	Compression string `yaml:"compression"`

	// TTL is the maximum age of a served snapshot, as a Go duration
	// string. Empty selects the cache's built-in default.
	TTL string `yaml:"ttl"`
}

// Default returns the default configuration. The CLI is usable with
// these alone; a config file overrides them field by field.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Gateway: GatewayConfig{
			URL:     "https://arweave.net",
			Timeout: "30s",
		},
		App: AppConfig{
			Name:    "ArDrive-CLI",
			Version: version.Short(),
		},
		Cache: CacheConfig{
			Dir:         filepath.Join(homeDir, ".cache", "ardrive"),
			Compression: "zstd",
		},
	}
}

// Load loads configuration from the file named by ARDRIVE_CONFIG.
// When the variable is unset the defaults are returned as-is: unlike a
// daemon, a command-line client must run without any config file, and
// flags provide the per-invocation overrides.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging it
// over the defaults. The file is the single source of truth past that
// merge: environment variables never override config values, and the
// only expansion performed is ${VAR} substitution in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// path fields. URLs and tag values are taken literally.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Wallet.File = expandVars(c.Wallet.File, vars)
	c.Cache.Dir = expandVars(c.Cache.Dir, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting every
// problem at once.
func (c *Config) Validate() error {
	var errs []error

	gatewayURL, err := url.Parse(c.Gateway.URL)
	switch {
	case c.Gateway.URL == "":
		errs = append(errs, fmt.Errorf("gateway.url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("gateway.url: %w", err))
	case gatewayURL.Scheme != "http" && gatewayURL.Scheme != "https":
		errs = append(errs, fmt.Errorf("gateway.url must be http or https, got %q", c.Gateway.URL))
	case gatewayURL.Host == "":
		errs = append(errs, fmt.Errorf("gateway.url has no host: %q", c.Gateway.URL))
	}

	if timeout, err := time.ParseDuration(c.Gateway.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("gateway.timeout: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("gateway.timeout must be positive, got %s", timeout))
	}

	if c.App.Name == "" {
		errs = append(errs, fmt.Errorf("app.name is required"))
	}

	if c.Tips.Contract != "" {
		if _, err := ledger.ParseTxID(c.Tips.Contract); err != nil {
			errs = append(errs, fmt.Errorf("tips.contract: %w", err))
		}
	}
	if c.Tips.MinimumWinston < 0 {
		errs = append(errs, fmt.Errorf("tips.minimum_winston must not be negative, got %d", c.Tips.MinimumWinston))
	}

	if _, err := cache.ParseCompression(c.Cache.Compression); err != nil {
		errs = append(errs, fmt.Errorf("cache.compression: %w", err))
	}
	if c.Cache.TTL != "" {
		if ttl, err := time.ParseDuration(c.Cache.TTL); err != nil {
			errs = append(errs, fmt.Errorf("cache.ttl: %w", err))
		} else if ttl < 0 {
			errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %s", ttl))
		}
	}

	return errors.Join(errs...)
}
