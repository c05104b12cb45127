// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Address is a validated wallet address: the unpadded base64url
// encoding of the SHA-256 digest of the wallet's public modulus
// (43 characters, 32 decoded bytes).
//
// Address is an immutable value type. The zero value is not valid;
// use IsZero to check.
type Address struct {
	id string
}

// ParseAddress validates and wraps a raw wallet address string.
// Returns an error if the string is empty, is not valid unpadded
// base64url, or does not decode to exactly 32 bytes.
func ParseAddress(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Address{}, fmt.Errorf("address %q is not base64url: %w", raw, err)
	}
	if len(decoded) != sha256.Size {
		return Address{}, fmt.Errorf("address %q decodes to %d bytes, want %d", raw, len(decoded), sha256.Size)
	}
	return Address{id: raw}, nil
}

// MustParseAddress is like ParseAddress but panics on error. Use in
// tests and static initialization where the input is known-valid.
func MustParseAddress(raw string) Address {
	a, err := ParseAddress(raw)
	if err != nil {
		panic(fmt.Sprintf("ledger.MustParseAddress(%q): %v", raw, err))
	}
	return a
}

// OwnerAddress derives the wallet address from a base64url-encoded
// public modulus, as carried in a transaction's Owner field.
func OwnerAddress(owner string) (Address, error) {
	modulus, err := base64.RawURLEncoding.DecodeString(owner)
	if err != nil {
		return Address{}, fmt.Errorf("owner is not base64url: %w", err)
	}
	digest := sha256.Sum256(modulus)
	return Address{id: base64.RawURLEncoding.EncodeToString(digest[:])}, nil
}

// String returns the base64url form of the address.
func (a Address) String() string { return a.id }

// IsZero reports whether the Address is the zero value (uninitialized).
func (a Address) IsZero() bool { return a.id == "" }

// MarshalText implements encoding.TextMarshaler for JSON and other
// text-based serialization formats.
func (a Address) MarshalText() ([]byte, error) {
	if a.id == "" {
		return nil, nil
	}
	return []byte(a.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// address format. An empty input produces the zero value.
func (a *Address) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
