// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// EntityID identifies one drive, folder, or file. It is a random
// 128-bit UUID, generated client-side at creation time and carried on
// every revision record of the entity.
//
// EntityID is an immutable value type and is comparable, so it can be
// used directly as a map key. The zero value is not a valid identity;
// it serves as the virtual-root sentinel in path lookups (see
// FolderTree) and reports true from IsZero.
type EntityID struct {
	id uuid.UUID
}

// NewEntityID generates a fresh random entity ID.
func NewEntityID() EntityID {
	return EntityID{id: uuid.New()}
}

// ParseEntityID validates and wraps an entity ID string. Only the
// canonical 36-character hex-and-dashes form is accepted; the braced,
// URN, and bare-hex forms some UUID parsers tolerate are rejected
// because tag values must round-trip byte for byte.
func ParseEntityID(raw string) (EntityID, error) {
	if raw == "" {
		return EntityID{}, fmt.Errorf("empty entity ID")
	}
	if len(raw) != 36 {
		return EntityID{}, fmt.Errorf("entity ID %q has length %d, want 36", raw, len(raw))
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return EntityID{}, fmt.Errorf("entity ID %q is not a UUID: %w", raw, err)
	}
	return EntityID{id: parsed}, nil
}

// MustParseEntityID is like ParseEntityID but panics on error. Use in
// tests and static initialization where the input is known-valid.
func MustParseEntityID(raw string) EntityID {
	e, err := ParseEntityID(raw)
	if err != nil {
		panic(fmt.Sprintf("arfs.MustParseEntityID(%q): %v", raw, err))
	}
	return e
}

// String returns the canonical lowercase form of the entity ID.
func (e EntityID) String() string {
	if e.IsZero() {
		return ""
	}
	return e.id.String()
}

// IsZero reports whether the EntityID is the zero value.
func (e EntityID) IsZero() bool { return e.id == uuid.UUID{} }

// MarshalText implements encoding.TextMarshaler for JSON and other
// text-based serialization formats.
func (e EntityID) MarshalText() ([]byte, error) {
	if e.IsZero() {
		return nil, nil
	}
	return []byte(e.id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// entity ID format. An empty input produces the zero value.
func (e *EntityID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*e = EntityID{}
		return nil
	}
	parsed, err := ParseEntityID(string(data))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// requireTag returns the value of the named tag or an error naming the
// record. Entity parsers use it for the tags the protocol mandates.
func requireTag(node ledger.Node, name string) (string, error) {
	value, ok := node.Tag(name)
	if !ok {
		return "", fmt.Errorf("record %s has no %s tag", node.ID, name)
	}
	return value, nil
}

// entityIDTag reads and parses the named tag as an entity ID.
func entityIDTag(node ledger.Node, name string) (EntityID, error) {
	value, err := requireTag(node, name)
	if err != nil {
		return EntityID{}, err
	}
	id, err := ParseEntityID(value)
	if err != nil {
		return EntityID{}, fmt.Errorf("record %s: bad %s tag: %w", node.ID, name, err)
	}
	return id, nil
}

// unixTimeTag reads the Unix-Time tag as seconds since the epoch. The
// tag is advisory (revision ordering is decided before entities are
// built), so a missing or malformed value degrades to zero rather than
// failing the build.
func unixTimeTag(node ledger.Node) int64 {
	value, ok := node.Tag(TagUnixTime)
	if !ok {
		return 0
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
