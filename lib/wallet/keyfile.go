// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// ageHeader opens every age ciphertext. Its presence distinguishes a
// sealed keyfile from a plain JWK document, whose first byte is '{'.
const ageHeader = "age-encryption.org/v1"

// IsSealed reports whether data is an age-sealed keyfile rather than
// a plain JWK document.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(ageHeader))
}

// Seal encrypts a plaintext JWK document to a passphrase using age's
// scrypt recipient. The returned bytes are the binary age ciphertext,
// ready to write to disk.
//
// Both buffers are borrowed and NOT closed by this function.
func Seal(plaintext, passphrase *secret.Buffer) ([]byte, error) {
	// The scrypt recipient requires a string; the heap copy is brief
	// and call-scoped.
	recipient, err := age.NewScryptRecipient(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("wallet: creating scrypt recipient: %w", err)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return nil, fmt.Errorf("wallet: creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext.Bytes()); err != nil {
		return nil, fmt.Errorf("wallet: writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("wallet: finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Open decrypts an age-sealed keyfile with a passphrase. Returns the
// plaintext JWK in a secret.Buffer; the caller must Close it.
//
// The passphrase is borrowed and NOT closed by this function.
func Open(sealed []byte, passphrase *secret.Buffer) (*secret.Buffer, error) {
	identity, err := age.NewScryptIdentity(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("wallet: creating scrypt identity: %w", err)
	}
	reader, err := age.Decrypt(bytes.NewReader(sealed), identity)
	if err != nil {
		return nil, fmt.Errorf("wallet: opening sealed keyfile: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("wallet: reading sealed keyfile: %w", err)
	}
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("wallet: sealed keyfile is empty")
	}

	buffer, err := secret.NewFromBytes(plaintext)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("wallet: protecting decrypted keyfile: %w", err)
	}
	return buffer, nil
}

// Load parses a keyfile in either form. A sealed keyfile needs the
// passphrase; a plain JWK ignores it. The input bytes are borrowed;
// callers holding them in a secret.Buffer keep ownership.
func Load(data []byte, passphrase *secret.Buffer) (*RSAWallet, error) {
	if !IsSealed(data) {
		return FromJWK(data)
	}
	if passphrase == nil {
		return nil, fmt.Errorf("wallet: keyfile is sealed and no passphrase was given")
	}
	plaintext, err := Open(data, passphrase)
	if err != nil {
		return nil, err
	}
	defer plaintext.Close()
	return FromJWK(plaintext.Bytes())
}
