// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package wallet manages the RSA-4096 keypairs that sign ledger
// transactions and data items.
//
// Wallets are interchanged as RSA JWK documents, the ledger's native
// keyfile format. At rest a keyfile is either the plain JWK JSON or an
// age scrypt-sealed ciphertext of it; Load detects which and opens
// sealed keyfiles with a passphrase. Key material and passphrases live
// in secret.Buffer values (mmap-backed, locked against swap, zeroed on
// close) except for the brief heap copies the crypto APIs force at
// their boundaries.
package wallet

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// ModulusSize is the raw RSA-4096 modulus width. Tied to the data-item
// binary layout, which reserves exactly this many bytes for the owner.
const ModulusSize = 512

// pssSaltSize matches the salt width the rest of the ecosystem signs
// with; verification fails for any other value.
const pssSaltSize = 32

// Wallet signs ledger payloads and identifies their owner.
type Wallet interface {
	// Address is the wallet's ledger address: the SHA-256 digest of
	// the public modulus, base64url.
	Address() ledger.Address

	// Owner is the base64url-encoded public modulus, as carried in
	// transaction and data-item owner fields.
	Owner() string

	// Sign produces an RSA-PSS/SHA-256 signature over the payload.
	Sign(payload []byte) ([]byte, error)
}

// RSAWallet is an in-memory RSA-4096 wallet.
type RSAWallet struct {
	key     *rsa.PrivateKey
	owner   string
	address ledger.Address
}

var _ Wallet = (*RSAWallet)(nil)

// Generate creates a new RSA-4096 wallet.
func Generate() (*RSAWallet, error) {
	key, err := rsa.GenerateKey(rand.Reader, ModulusSize*8)
	if err != nil {
		return nil, fmt.Errorf("wallet: generating RSA key: %w", err)
	}
	return fromKey(key)
}

// FromJWK parses an RSA JWK document into a wallet. The document must
// carry the private exponent; public-only keys cannot sign and are
// rejected. The caller owns the input bytes and should zero them if
// they came from a sealed keyfile.
func FromJWK(data []byte) (*RSAWallet, error) {
	var doc jwkDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("wallet: parsing JWK: %w", err)
	}
	if doc.KeyType != "RSA" {
		return nil, fmt.Errorf("wallet: JWK key type %q, want RSA", doc.KeyType)
	}
	if doc.D == "" {
		return nil, fmt.Errorf("wallet: JWK has no private exponent, cannot sign")
	}

	n, err := decodeField("n", doc.N)
	if err != nil {
		return nil, err
	}
	e, err := decodeField("e", doc.E)
	if err != nil {
		return nil, err
	}
	if !e.IsInt64() || e.Int64() > int64(^uint32(0)) {
		return nil, fmt.Errorf("wallet: JWK public exponent is implausibly large")
	}
	d, err := decodeField("d", doc.D)
	if err != nil {
		return nil, err
	}
	p, err := decodeField("p", doc.P)
	if err != nil {
		return nil, err
	}
	q, err := decodeField("q", doc.Q)
	if err != nil {
		return nil, err
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	key.Precompute()
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("wallet: JWK key fails validation: %w", err)
	}
	return fromKey(key)
}

// fromKey derives the owner string and address and pins the expected
// modulus width.
func fromKey(key *rsa.PrivateKey) (*RSAWallet, error) {
	modulus := key.N.Bytes()
	if len(modulus) != ModulusSize {
		return nil, fmt.Errorf("wallet: modulus is %d bytes, want %d", len(modulus), ModulusSize)
	}
	owner := base64.RawURLEncoding.EncodeToString(modulus)
	address, err := ledger.OwnerAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("wallet: deriving address: %w", err)
	}
	return &RSAWallet{key: key, owner: owner, address: address}, nil
}

// Address returns the wallet's ledger address.
func (w *RSAWallet) Address() ledger.Address { return w.address }

// Owner returns the base64url-encoded public modulus.
func (w *RSAWallet) Owner() string { return w.owner }

// Sign produces an RSA-PSS/SHA-256 signature over the payload.
func (w *RSAWallet) Sign(payload []byte) ([]byte, error) {
	digest := sha256.Sum256(payload)
	signature, err := rsa.SignPSS(rand.Reader, w.key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: pssSaltSize,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return nil, fmt.Errorf("wallet: signing: %w", err)
	}
	return signature, nil
}

// PublicKey returns the RSA public key, for signature verification.
func (w *RSAWallet) PublicKey() *rsa.PublicKey {
	return &w.key.PublicKey
}

// MarshalJWK serializes the wallet as an RSA JWK document, including
// the precomputed CRT values. The output is private key material; seal
// it before writing to disk.
func (w *RSAWallet) MarshalJWK() ([]byte, error) {
	key := w.key
	doc := jwkDocument{
		KeyType: "RSA",
		N:       encodeField(key.N),
		E:       encodeField(big.NewInt(int64(key.E))),
		D:       encodeField(key.D),
		P:       encodeField(key.Primes[0]),
		Q:       encodeField(key.Primes[1]),
		DP:      encodeField(key.Precomputed.Dp),
		DQ:      encodeField(key.Precomputed.Dq),
		QI:      encodeField(key.Precomputed.Qinv),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("wallet: serializing JWK: %w", err)
	}
	return data, nil
}

// jwkDocument is the RSA JWK wire shape. All integer fields are
// unpadded base64url big-endian bytes.
type jwkDocument struct {
	KeyType string `json:"kty"`
	N       string `json:"n"`
	E       string `json:"e"`
	D       string `json:"d,omitempty"`
	P       string `json:"p,omitempty"`
	Q       string `json:"q,omitempty"`
	DP      string `json:"dp,omitempty"`
	DQ      string `json:"dq,omitempty"`
	QI      string `json:"qi,omitempty"`
}

func decodeField(name, value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("wallet: JWK field %q is missing", name)
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("wallet: JWK field %q is not base64url: %w", name, err)
	}
	return new(big.Int).SetBytes(raw), nil
}

func encodeField(n *big.Int) string {
	return base64.RawURLEncoding.EncodeToString(n.Bytes())
}
