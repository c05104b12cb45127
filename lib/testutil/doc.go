// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] encapsulates the timeout safety valve pattern
// (select with a time.After fallback) for tests that run an operation
// in a goroutine and wait for its result on a channel. Tests that
// exercise time-dependent behavior deterministically go through
// lib/clock instead.
//
// Helpers call t.Fatalf on failure rather than returning errors, since
// test setup failures are not recoverable.
package testutil
