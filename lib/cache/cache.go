// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache is a read-side snapshot cache for query results that
// are expensive to rebuild: drive hierarchies, revision-reduced entity
// lists, contract state. Records are CBOR, optionally compressed, and
// live in a two-level sharded directory keyed by a BLAKE3 keyed hash
// of the caller's cache key.
//
// The ledger itself is append-only, but a client's view of it moves
// as new transactions are indexed, so every record carries a write
// timestamp and the store enforces a TTL at read time. A stale or
// corrupt entry is a miss, never an error: callers fall through to
// the real query path.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/petershepherd/ardrive-cli/lib/clock"
	"github.com/petershepherd/ardrive-cli/lib/codec"
)

// keyDomain is the BLAKE3 keyed-hash domain for cache keys. Keys are
// free-form strings (they embed drive IDs and query parameters), so
// hashing produces the filesystem-safe name. The byte values are the
// ASCII domain name, zero-padded to 32 bytes, which keeps the key
// inspectable in hex dumps without weakening the hash.
var keyDomain = [32]byte{
	'a', 'r', 'd', 'r', 'i', 'v', 'e', '.', 'c', 'a', 'c', 'h', 'e', '.',
	'k', 'e', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// DefaultTTL bounds how stale a served snapshot can be. Five minutes
// is far above index propagation jitter and far below the rate at
// which a human re-runs list commands expecting fresh results.
const DefaultTTL = 5 * time.Minute

// record is the on-disk shape of one cache entry. The original key is
// stored alongside the payload so a hash collision reads as a miss
// instead of returning another key's snapshot.
type record struct {
	Key         string    `cbor:"key"`
	StoredAt    time.Time `cbor:"stored_at"`
	Compression uint8     `cbor:"compression"`
	RawSize     int64     `cbor:"raw_size"`
	Payload     []byte    `cbor:"payload"`
}

// Config holds configuration for creating a Store.
type Config struct {
	// Dir is the cache root directory. Required; created if missing.
	Dir string

	// TTL is the maximum age of a readable entry. Zero selects
	// DefaultTTL.
	TTL time.Duration

	// Compression is the algorithm applied to new entries. Entries
	// written under a different setting remain readable.
	Compression Compression

	// Clock stamps new entries and judges expiry. Defaults to the
	// real clock.
	Clock clock.Clock

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store reads and writes cache entries under a root directory. Writes
// are atomic (temp file + rename), so a crashed process never leaves
// a half-written record where a reader can find it.
type Store struct {
	dir         string
	ttl         time.Duration
	compression Compression
	clock       clock.Clock
	logger      *slog.Logger
}

// NewStore creates a Store rooted at cfg.Dir, creating the directory
// if needed.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("cache: Dir is required")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("cache: negative TTL %s", cfg.TTL)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: creating directory %s: %w", cfg.Dir, err)
	}

	store := &Store{
		dir:         cfg.Dir,
		ttl:         cfg.TTL,
		compression: cfg.Compression,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
	if store.ttl == 0 {
		store.ttl = DefaultTTL
	}
	if store.clock == nil {
		store.clock = clock.Real()
	}
	if store.logger == nil {
		store.logger = slog.Default()
	}
	return store, nil
}

// Get loads the entry for key into value and reports whether a live
// entry existed. Expired, corrupt, or colliding entries read as
// misses; the only errors are filesystem failures other than absence.
func (s *Store) Get(key string, value any) (bool, error) {
	path := s.keyPath(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: reading entry: %w", err)
	}

	var entry record
	if err := codec.Unmarshal(data, &entry); err != nil {
		s.discard(path, "undecodable entry", err)
		return false, nil
	}
	if entry.Key != key {
		// Hash collision or a record written under a different key
		// derivation. Either way this payload is not ours.
		s.logger.Debug("cache key mismatch", "want", key, "got", entry.Key)
		return false, nil
	}
	if age := s.clock.Now().Sub(entry.StoredAt); age > s.ttl {
		s.discard(path, "expired entry", nil)
		return false, nil
	}

	payload, err := decompress(entry.Payload, Compression(entry.Compression), int(entry.RawSize))
	if err != nil {
		s.discard(path, "unreadable payload", err)
		return false, nil
	}
	if err := codec.Unmarshal(payload, value); err != nil {
		s.discard(path, "payload type mismatch", err)
		return false, nil
	}
	return true, nil
}

// Put stores value under key, replacing any existing entry.
func (s *Store) Put(key string, value any) error {
	if key == "" {
		return fmt.Errorf("cache: empty key")
	}
	payload, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encoding value for %q: %w", key, err)
	}

	algorithm := s.compression
	compressed, err := compress(payload, algorithm)
	if errors.Is(err, errIncompressible) {
		algorithm, compressed = CompressionNone, payload
	} else if err != nil {
		return fmt.Errorf("cache: compressing entry for %q: %w", key, err)
	}

	entry := record{
		Key:         key,
		StoredAt:    s.clock.Now(),
		Compression: uint8(algorithm),
		RawSize:     int64(len(payload)),
		Payload:     compressed,
	}
	data, err := codec.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache: encoding entry for %q: %w", key, err)
	}
	return s.writeFile(s.keyPath(key), data)
}

// Invalidate removes the entry for key. Removing an absent entry is
// not an error.
func (s *Store) Invalidate(key string) error {
	if err := os.Remove(s.keyPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cache: removing entry for %q: %w", key, err)
	}
	return nil
}

// writeFile atomically writes data to path. The temp file lives in
// the cache root so the rename never crosses a filesystem boundary.
func (s *Store) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache: creating shard directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, "entry-*.cbor")
	if err != nil {
		return fmt.Errorf("cache: creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("cache: writing entry: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("cache: closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("cache: renaming entry into place: %w", err)
	}

	success = true
	return nil
}

// discard logs and best-effort removes a cache file that can no
// longer serve reads.
func (s *Store) discard(path string, reason string, err error) {
	if err != nil {
		s.logger.Debug("dropping cache entry", "path", path, "reason", reason, "error", err)
	} else {
		s.logger.Debug("dropping cache entry", "path", path, "reason", reason)
	}
	os.Remove(path)
}

// keyPath returns the sharded filesystem path for a cache key: the
// hex BLAKE3 keyed hash split two-level, the same layout at any
// entry count.
func (s *Store) keyPath(key string) string {
	hasher, err := blake3.NewKeyed(keyDomain[:])
	if err != nil {
		panic("cache: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(key))
	hexString := hex.EncodeToString(hasher.Sum(nil))
	return filepath.Join(s.dir, hexString[:2], hexString[2:4], hexString+".cbor")
}
