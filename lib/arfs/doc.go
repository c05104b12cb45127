// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package arfs implements the ArFS entity protocol: the tag vocabulary
// and JSON payload formats that turn raw ledger records into drives,
// folders, and files.
//
// The ledger itself only stores signed, tagged blobs. Everything that
// looks like a file system is synthesized client-side: an entity is the
// reduction of all ledger records sharing its entity ID down to the
// newest one (LatestRevisions), folder records are linked into a forest
// by their Parent-Folder-Id tags (NewFolderTree), and mutations are
// serialized back into tagged payloads by the prototype types.
//
// Private entities are sealed with AES-256-GCM. The drive key encrypts
// drive and folder metadata; file metadata and file data use a per-file
// key derived from the drive key and the file's entity ID, so a shared
// file key never exposes the rest of the drive. No key material appears
// in any ledger record.
//
// This package is pure: it performs no I/O and holds no state between
// calls. Paging, payload retrieval, and submission live in lib/ardrive
// and lib/gateway.
package arfs
