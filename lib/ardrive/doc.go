// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package ardrive orchestrates drive, folder, and file operations
// against the permanent ledger.
//
// The Client composes the narrow collaborator interfaces: a
// ledger.Queryer for tag queries and payload retrieval, a
// ledger.Submitter for fees, balances, anchors, and uploads, a signing
// wallet, and optionally a community tip oracle and a local snapshot
// cache. Every operation takes all identifiers and keys explicitly;
// there is no ambient session.
//
// Reads page the ledger index to exhaustion, reduce each entity's
// revision records to the newest one, and decode metadata payloads,
// decrypting private entities with the supplied drive key (file
// metadata uses the per-file key derived from it). Writes build tag
// and payload prototypes, sign them, and submit them as individual
// transactions or packed into one bundle, with a community tip
// transfer attached to uploads when an oracle is configured. Ledger
// writes are irrevocable, so multi-record operations never roll back:
// partial success is reported with enough identifiers to retry only
// the missing pieces.
package ardrive
