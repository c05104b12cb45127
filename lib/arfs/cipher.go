// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// CipherAES256GCM is the value of the Cipher tag on every private
// record this client writes, and the only cipher it can open.
const CipherAES256GCM = "AES256-GCM"

// CipherIVSize is the GCM nonce length in bytes. The nonce is random
// per record and travels in the Cipher-IV tag, base64url without
// padding, never inside the payload.
const CipherIVSize = 12

// EncryptPayload seals plaintext under the given 32-byte key with
// AES-256-GCM and a fresh random IV. The returned sealed bytes carry
// the GCM authentication tag appended; the IV is returned separately
// for the caller to place in the Cipher-IV tag.
//
// The key is borrowed (read via Bytes) and is NOT closed.
func EncryptPayload(key *secret.Buffer, plaintext []byte) (sealed, iv []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, CipherIVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, fmt.Errorf("generating random IV: %w", err)
	}

	return aead.Seal(nil, iv, plaintext, nil), iv, nil
}

// DecryptPayload opens sealed bytes produced by EncryptPayload. It
// fails if the key is wrong, the IV does not match, or the ciphertext
// was tampered with; there is no unauthenticated output.
//
// The key is borrowed and NOT closed.
func DecryptPayload(key *secret.Buffer, iv, sealed []byte) ([]byte, error) {
	if len(iv) != CipherIVSize {
		return nil, fmt.Errorf("IV is %d bytes, want %d", len(iv), CipherIVSize)
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("AEAD open failed (wrong key or tampered ciphertext): %w", err)
	}
	return plaintext, nil
}

// DecryptEntityPayload opens the payload of a private entity record
// using the record's own Cipher and Cipher-IV tags. Any failure,
// including missing or malformed cipher tags, is reported as a
// DecryptionError carrying the record's transaction ID.
//
// The key is the drive key for drive and folder records and the
// derived file key for file records; the caller chooses. It is
// borrowed and NOT closed.
func DecryptEntityPayload(key *secret.Buffer, node ledger.Node, sealed []byte) ([]byte, error) {
	cipherName, ok := node.Tag(TagCipher)
	if !ok {
		return nil, &DecryptionError{TxID: node.ID, Err: fmt.Errorf("record has no %s tag", TagCipher)}
	}
	if cipherName != CipherAES256GCM {
		return nil, &DecryptionError{TxID: node.ID, Err: fmt.Errorf("unsupported cipher %q", cipherName)}
	}
	ivText, ok := node.Tag(TagCipherIV)
	if !ok {
		return nil, &DecryptionError{TxID: node.ID, Err: fmt.Errorf("record has no %s tag", TagCipherIV)}
	}
	iv, err := base64.RawURLEncoding.DecodeString(ivText)
	if err != nil {
		return nil, &DecryptionError{TxID: node.ID, Err: fmt.Errorf("bad %s tag: %w", TagCipherIV, err)}
	}
	plaintext, err := DecryptPayload(key, iv, sealed)
	if err != nil {
		return nil, &DecryptionError{TxID: node.ID, Err: err}
	}
	return plaintext, nil
}

func newGCM(key *secret.Buffer) (cipher.AEAD, error) {
	if key.Len() != KeySize {
		return nil, fmt.Errorf("key is %d bytes, want %d", key.Len(), KeySize)
	}
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM mode: %w", err)
	}
	return aead, nil
}
