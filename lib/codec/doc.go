// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// Two serialization formats are used with a clear boundary:
//
//   - JSON for external interfaces: entity metadata payloads written
//     to the ledger, gateway HTTP APIs, wallet key files, and CLI
//     output.
//   - CBOR for local state: the query snapshot cache and resumable
//     upload progress files.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes.
//
// For buffer-oriented operations (cache entries, state files):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR. It will
//     never be marshaled to JSON or cross the wire. Examples: cache
//     entry envelopes, upload progress snapshots.
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats. Examples: ledger query results
//     that are cached locally, metadata payloads.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract.
package codec
