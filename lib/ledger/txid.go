// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// TxID is a validated ledger transaction identifier: the unpadded
// base64url encoding of the SHA-256 digest of the transaction's
// signature (43 characters, 32 decoded bytes).
//
// TxID is an immutable value type and is comparable, so it can be used
// directly as a map key. The zero value is not valid; use IsZero to
// check.
type TxID struct {
	id string
}

// ParseTxID validates and wraps a raw transaction ID string. Returns
// an error if the string is empty, is not valid unpadded base64url, or
// does not decode to exactly 32 bytes.
func ParseTxID(raw string) (TxID, error) {
	if raw == "" {
		return TxID{}, fmt.Errorf("empty transaction ID")
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return TxID{}, fmt.Errorf("transaction ID %q is not base64url: %w", raw, err)
	}
	if len(decoded) != sha256.Size {
		return TxID{}, fmt.Errorf("transaction ID %q decodes to %d bytes, want %d", raw, len(decoded), sha256.Size)
	}
	return TxID{id: raw}, nil
}

// MustParseTxID is like ParseTxID but panics on error. Use in tests
// and static initialization where the input is known-valid.
func MustParseTxID(raw string) TxID {
	t, err := ParseTxID(raw)
	if err != nil {
		panic(fmt.Sprintf("ledger.MustParseTxID(%q): %v", raw, err))
	}
	return t
}

// TxIDFromDigest wraps a raw 32-byte digest as a TxID.
func TxIDFromDigest(digest [sha256.Size]byte) TxID {
	return TxID{id: base64.RawURLEncoding.EncodeToString(digest[:])}
}

// String returns the base64url form of the transaction ID.
func (t TxID) String() string { return t.id }

// IsZero reports whether the TxID is the zero value (uninitialized).
func (t TxID) IsZero() bool { return t.id == "" }

// MarshalText implements encoding.TextMarshaler for JSON and other
// text-based serialization formats.
func (t TxID) MarshalText() ([]byte, error) {
	if t.id == "" {
		return nil, nil
	}
	return []byte(t.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// transaction ID format. An empty input produces the zero value.
func (t *TxID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*t = TxID{}
		return nil
	}
	parsed, err := ParseTxID(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
