// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// KeySize is the size in bytes of drive keys and derived file keys.
const KeySize = 32

// HKDF info prefixes. These are the "info" parameter to HKDF-SHA256,
// providing domain separation between the two derivation paths; the
// entity ID is appended in canonical string form. Changing either
// prefix invalidates every private record written under it.
const (
	hkdfInfoDriveKey = "ardrive-drive-key-v1:"
	hkdfInfoFileKey  = "ardrive-file-key-v1:"
)

// DeriveDriveKey derives a drive's symmetric key from a user
// passphrase and the drive's entity ID. The same passphrase yields
// distinct keys for distinct drives, so reusing a passphrase across
// drives does not link their ciphertexts.
//
// The passphrase is borrowed (read via Bytes) and is NOT closed. The
// returned Buffer must be closed by the caller.
func DeriveDriveKey(passphrase *secret.Buffer, driveID EntityID) (*secret.Buffer, error) {
	if driveID.IsZero() {
		return nil, fmt.Errorf("derive drive key: zero drive ID")
	}
	return deriveKey(passphrase, hkdfInfoDriveKey+driveID.String())
}

// DeriveFileKey derives a file's symmetric key from its drive's key
// and the file's entity ID. File metadata and file data are sealed
// under this key, so a file key shared out of band opens exactly one
// file and nothing else in the drive.
//
// The driveKey is borrowed and NOT closed. The returned Buffer must be
// closed by the caller.
func DeriveFileKey(driveKey *secret.Buffer, fileID EntityID) (*secret.Buffer, error) {
	if fileID.IsZero() {
		return nil, fmt.Errorf("derive file key: zero file ID")
	}
	return deriveKey(driveKey, hkdfInfoFileKey+fileID.String())
}

func deriveKey(inputKeyMaterial *secret.Buffer, info string) (*secret.Buffer, error) {
	reader := hkdf.New(sha256.New, inputKeyMaterial.Bytes(), nil, []byte(info))
	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		secret.Zero(derived)
		return nil, fmt.Errorf("HKDF key derivation failed: %w", err)
	}
	// NewFromBytes copies into guarded memory and zeroes the heap slice.
	return secret.NewFromBytes(derived)
}
