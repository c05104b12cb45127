// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/version"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Gateway.URL != "https://arweave.net" {
		t.Errorf("expected gateway.url=https://arweave.net, got %s", cfg.Gateway.URL)
	}

	if cfg.Gateway.Timeout != "30s" {
		t.Errorf("expected gateway.timeout=30s, got %s", cfg.Gateway.Timeout)
	}

	if cfg.App.Name != "ArDrive-CLI" {
		t.Errorf("expected app.name=ArDrive-CLI, got %s", cfg.App.Name)
	}

	if cfg.App.Version != version.Short() {
		t.Errorf("expected app.version=%s, got %s", version.Short(), cfg.App.Version)
	}

	if cfg.Tips.Disabled {
		t.Error("expected tips enabled by default")
	}

	if cfg.Cache.Compression != "zstd" {
		t.Errorf("expected cache.compression=zstd, got %s", cfg.Cache.Compression)
	}

	if !strings.HasSuffix(cfg.Cache.Dir, filepath.Join(".cache", "ardrive")) {
		t.Errorf("expected cache.dir under ~/.cache/ardrive, got %s", cfg.Cache.Dir)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// An empty ARDRIVE_CONFIG means no config file: the defaults are
	// used and Load must not fail.
	t.Setenv(EnvVar, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Gateway.URL != "https://arweave.net" {
		t.Errorf("expected default gateway.url, got %s", cfg.Gateway.URL)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ardrive.yaml")

	configContent := `
gateway:
  url: https://gateway.test
tips:
  disabled: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv(EnvVar, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Gateway.URL != "https://gateway.test" {
		t.Errorf("expected gateway.url=https://gateway.test, got %s", cfg.Gateway.URL)
	}

	if !cfg.Tips.Disabled {
		t.Error("expected tips.disabled=true from file")
	}

	// Fields the file does not mention keep their defaults.
	if cfg.Gateway.Timeout != "30s" {
		t.Errorf("expected default gateway.timeout=30s, got %s", cfg.Gateway.Timeout)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ardrive.yaml")

	configContent := `
gateway:
  url: http://localhost:1984
  timeout: 2m

app:
  name: ArDrive-Sync
  version: 9.9.9

tips:
  disabled: true
  minimum_winston: 5000000

wallet:
  file: /keys/wallet.json

cache:
  dir: /var/cache/ardrive
  compression: lz4
  ttl: 10m
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Gateway.URL != "http://localhost:1984" {
		t.Errorf("expected gateway.url=http://localhost:1984, got %s", cfg.Gateway.URL)
	}

	if cfg.Gateway.Timeout != "2m" {
		t.Errorf("expected gateway.timeout=2m, got %s", cfg.Gateway.Timeout)
	}

	if cfg.App.Name != "ArDrive-Sync" {
		t.Errorf("expected app.name=ArDrive-Sync, got %s", cfg.App.Name)
	}

	if cfg.App.Version != "9.9.9" {
		t.Errorf("expected app.version=9.9.9, got %s", cfg.App.Version)
	}

	if !cfg.Tips.Disabled {
		t.Error("expected tips.disabled=true")
	}

	if cfg.Tips.MinimumWinston != 5000000 {
		t.Errorf("expected tips.minimum_winston=5000000, got %d", cfg.Tips.MinimumWinston)
	}

	if cfg.Wallet.File != "/keys/wallet.json" {
		t.Errorf("expected wallet.file=/keys/wallet.json, got %s", cfg.Wallet.File)
	}

	if cfg.Cache.Dir != "/var/cache/ardrive" {
		t.Errorf("expected cache.dir=/var/cache/ardrive, got %s", cfg.Cache.Dir)
	}

	if cfg.Cache.Compression != "lz4" {
		t.Errorf("expected cache.compression=lz4, got %s", cfg.Cache.Compression)
	}

	if cfg.Cache.TTL != "10m" {
		t.Errorf("expected cache.ttl=10m, got %s", cfg.Cache.TTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate, got %v", err)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoadFile_BadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ardrive.yaml")

	if err := os.WriteFile(configPath, []byte("gateway: ["), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("expected error for malformed YAML, got nil")
	}
}

func TestLoadFile_ExpandsVariables(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ardrive.yaml")

	configContent := `
wallet:
  file: ${HOME}/wallet.json
cache:
  dir: ${ARDRIVE_CACHE_BASE:-/var/cache}/ardrive
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Wallet.File != "/home/tester/wallet.json" {
		t.Errorf("expected wallet.file=/home/tester/wallet.json, got %s", cfg.Wallet.File)
	}

	if cfg.Cache.Dir != "/var/cache/ardrive" {
		t.Errorf("expected cache.dir=/var/cache/ardrive, got %s", cfg.Cache.Dir)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/wallet.json",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/wallet.json",
		},
		{
			input:    "${MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid with contract and ttl",
			modify: func(c *Config) {
				c.Tips.Contract = strings.Repeat("A", 43)
				c.Cache.TTL = "10m"
			},
			wantErr: false,
		},
		{
			name: "empty gateway url",
			modify: func(c *Config) {
				c.Gateway.URL = ""
			},
			wantErr: true,
		},
		{
			name: "gateway url with bad scheme",
			modify: func(c *Config) {
				c.Gateway.URL = "ftp://arweave.net"
			},
			wantErr: true,
		},
		{
			name: "gateway url without host",
			modify: func(c *Config) {
				c.Gateway.URL = "https://"
			},
			wantErr: true,
		},
		{
			name: "unparseable timeout",
			modify: func(c *Config) {
				c.Gateway.Timeout = "soon"
			},
			wantErr: true,
		},
		{
			name: "zero timeout",
			modify: func(c *Config) {
				c.Gateway.Timeout = "0s"
			},
			wantErr: true,
		},
		{
			name: "empty app name",
			modify: func(c *Config) {
				c.App.Name = ""
			},
			wantErr: true,
		},
		{
			name: "malformed tip contract",
			modify: func(c *Config) {
				c.Tips.Contract = "not-a-transaction-id"
			},
			wantErr: true,
		},
		{
			name: "negative tip minimum",
			modify: func(c *Config) {
				c.Tips.MinimumWinston = -1
			},
			wantErr: true,
		},
		{
			name: "unknown compression",
			modify: func(c *Config) {
				c.Cache.Compression = "brotli"
			},
			wantErr: true,
		},
		{
			name: "unparseable ttl",
			modify: func(c *Config) {
				c.Cache.TTL = "never"
			},
			wantErr: true,
		},
		{
			name: "negative ttl",
			modify: func(c *Config) {
				c.Cache.TTL = "-5m"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
