// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the ardrive
// binary.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a [pflag.FlagSet]
// factory, and a Run function. Commands are assembled into a tree in
// cmd/ardrive and dispatched via [Command.Execute], which handles flag
// parsing, subcommand routing, and structured help output with
// examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
//
// [Session] carries the flags shared by every subcommand that talks
// to the ledger (--config, --gateway, --wallet, ...) and builds the
// configured client in [Session.Connect]. [ReadPassphrase] is the one
// place a drive password or wallet passphrase enters the process:
// from a file, from stdin, or from an interactive no-echo prompt.
package cli
