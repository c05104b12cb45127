// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// dataItemVersion is the nested record format version signed into
// every data item.
const dataItemVersion = "1"

// DataItem is a signable record nested inside a bundle transaction.
// It carries the same tag-addressed payload as a Transaction but pays
// no individual mining fee: the enclosing bundle transaction pays for
// all of its items at once.
//
// Like Transaction, a DataItem is built unsigned, signed externally
// over SigningPayload, and completed with Finalize.
type DataItem struct {
	// Owner is the base64url-encoded public modulus of the signing
	// wallet.
	Owner string

	// Target is the recipient address. Empty for data-only items.
	Target Address

	// Anchor is an optional caller-chosen value mixed into the
	// signature, letting a wallet produce distinct IDs for otherwise
	// identical items. Empty is fine.
	Anchor string

	Tags []Tag
	Data []byte

	// Signature is the RSA-PSS signature over SigningPayload. Nil
	// until Finalize.
	Signature []byte

	id TxID
}

// SigningPayload returns the deep-hash digest the wallet signs.
func (item *DataItem) SigningPayload() ([]byte, error) {
	owner, err := base64.RawURLEncoding.DecodeString(item.Owner)
	if err != nil {
		return nil, fmt.Errorf("ledger: decoding owner: %w", err)
	}

	var target []byte
	if !item.Target.IsZero() {
		target, err = base64.RawURLEncoding.DecodeString(item.Target.String())
		if err != nil {
			return nil, fmt.Errorf("ledger: decoding target: %w", err)
		}
	}

	digest := DeepHash(List(
		Blob([]byte("dataitem")),
		Blob([]byte(dataItemVersion)),
		Blob(owner),
		Blob(target),
		Blob([]byte(item.Anchor)),
		tagElements(item.Tags),
		Blob(item.Data),
	))
	return digest[:], nil
}

// Finalize attaches the signature produced over SigningPayload and
// derives the item ID from it.
func (item *DataItem) Finalize(signature []byte) error {
	if len(signature) == 0 {
		return fmt.Errorf("ledger: empty signature")
	}
	item.Signature = append([]byte(nil), signature...)
	item.id = TxIDFromDigest(sha256.Sum256(signature))
	return nil
}

// ID returns the item's identifier. Zero until Finalize.
func (item *DataItem) ID() TxID { return item.id }
