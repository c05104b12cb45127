// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger models the append-only transaction ledger that drive
// metadata and file data are written to.
//
// The ledger is permanent and content-addressed: a transaction is a
// signed record carrying an arbitrary byte payload plus a set of
// name/value tags, and once accepted it is never modified or deleted.
// Everything higher up (drives, folders, files, revisions) is a
// client-side interpretation of tagged transactions; this package knows
// nothing about those semantics.
//
// The package covers four concerns:
//
//   - Value types: [TxID], [Address], [Winston], and [Tag] are the
//     identifiers and amounts that appear on the wire.
//   - Queries: [TagQuery] describes a tag-predicate search against a
//     ledger index; [Queryer] is the transport that executes it and
//     returns cursor-paged [QueryPage] results.
//   - Transactions: [Transaction] and [DataItem] are the signable
//     records, with deep-hash signing payloads ([DeepHash]) and
//     signature-derived identifiers.
//   - Upload: [TransactionUploader] drives the chunked, resumable
//     submission of a signed transaction through a [TransportSink].
//
// Signing itself lives elsewhere: a Transaction exposes its
// SigningPayload and accepts the resulting signature via Finalize, so
// this package never touches private key material.
package ledger
