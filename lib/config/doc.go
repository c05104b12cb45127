// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the ardrive
// CLI.
//
// Configuration is loaded from a single file specified by either the
// ARDRIVE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks and no ~/.config discovery.
// When no file is named at all, [Load] returns the defaults: the CLI
// runs without a config file, and flags carry the per-invocation
// overrides.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded in wallet.file
// and cache.dir. No other environment variables override config
// values.
//
// Key exports:
//
//   - [Config] -- master struct with Gateway, App, Tips, Wallet, Cache
//   - [Default] -- returns a Config usable without any file
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// Durations are kept as strings ("30s", "5m") and parsed where they
// are used; [Config.Validate] guarantees they parse.
package config
