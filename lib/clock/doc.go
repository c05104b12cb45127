// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock interface parameter instead of
// calling time.Now, time.After, or time.Sleep directly. In production,
// Real() provides the standard library behavior. In tests, Fake()
// provides a deterministic clock that advances only when Advance is
// called.
//
// Add a Clock field to structs that use time:
//
//	type Uploader struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	u := &Uploader{clock: c}
//	// ... start goroutines ...
//	c.WaitForTimers(1)         // wait for goroutine to register a waiter
//	c.Advance(5 * time.Second) // fire it deterministically
//
// Use WaitForTimers to block until a specific number of waiters are
// registered before calling Advance. This eliminates the race between
// waiter registration and time advancement that plagues tests using
// time.Sleep for synchronization.
package clock
