// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/secret"
)

func testPassphrase(t *testing.T, text string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte(text))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func TestSealOpenRoundTrip(t *testing.T) {
	w := testWallet(t)
	document, err := w.MarshalJWK()
	if err != nil {
		t.Fatalf("MarshalJWK: %v", err)
	}
	plaintext, err := secret.NewFromBytes(document)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	t.Cleanup(func() { plaintext.Close() })
	passphrase := testPassphrase(t, "correct horse battery staple")

	sealed, err := Seal(plaintext, passphrase)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !IsSealed(sealed) {
		t.Fatal("sealed keyfile not recognized as sealed")
	}

	restored, err := Load(sealed, passphrase)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Address() != w.Address() {
		t.Errorf("restored address = %s, want %s", restored.Address(), w.Address())
	}
}

func TestLoadPlainKeyfile(t *testing.T) {
	w := testWallet(t)
	document, err := w.MarshalJWK()
	if err != nil {
		t.Fatalf("MarshalJWK: %v", err)
	}
	if IsSealed(document) {
		t.Fatal("plain JWK recognized as sealed")
	}

	// A plain keyfile needs no passphrase.
	restored, err := Load(document, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Address() != w.Address() {
		t.Errorf("restored address = %s, want %s", restored.Address(), w.Address())
	}
}

func TestLoadSealedRequiresPassphrase(t *testing.T) {
	w := testWallet(t)
	document, err := w.MarshalJWK()
	if err != nil {
		t.Fatalf("MarshalJWK: %v", err)
	}
	plaintext, err := secret.NewFromBytes(document)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	t.Cleanup(func() { plaintext.Close() })

	sealed, err := Seal(plaintext, testPassphrase(t, "right"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	if _, err := Load(sealed, nil); err == nil {
		t.Error("Load opened a sealed keyfile without a passphrase")
	}
	if _, err := Load(sealed, testPassphrase(t, "wrong")); err == nil {
		t.Error("Load opened a sealed keyfile with the wrong passphrase")
	}
}
