// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
)

// transactionFormat is the ledger transaction format this client
// produces. Format 2 separates the data commitment from the signed
// header, which is what makes chunked upload of large payloads
// possible.
const transactionFormat = 2

// Transaction is a signable ledger record. Build one with
// NewTransaction, sign its SigningPayload externally, then attach the
// signature with Finalize; only a finalized transaction has an ID and
// can be uploaded.
type Transaction struct {
	Format int

	// ID is the SHA-256 digest of the signature. Zero until Finalize.
	ID TxID

	// LastTx is the anchor obtained from the gateway shortly before
	// signing. It scopes the transaction to a recent ledger state so
	// stale submissions expire instead of lingering forever.
	LastTx string

	// Owner is the base64url-encoded public modulus of the signing
	// wallet.
	Owner string

	Tags []Tag

	// Target is the recipient address for value transfers. Empty for
	// data-only transactions.
	Target Address

	// Quantity is the amount transferred to Target. Zero for
	// data-only transactions.
	Quantity Winston

	// Reward is the mining fee, computed from the gateway's price
	// endpoint and any configured fee boost.
	Reward Winston

	Data     []byte
	DataSize int64

	// Signature is the RSA-PSS signature over SigningPayload. Nil
	// until Finalize.
	Signature []byte
}

// TxParams holds the inputs for NewTransaction.
type TxParams struct {
	Owner    string
	Target   Address
	Quantity Winston
	Reward   Winston
	LastTx   string
	Tags     []Tag
	Data     []byte
}

// NewTransaction builds an unsigned format-2 transaction.
func NewTransaction(params TxParams) *Transaction {
	return &Transaction{
		Format:   transactionFormat,
		Owner:    params.Owner,
		Target:   params.Target,
		Quantity: params.Quantity,
		Reward:   params.Reward,
		LastTx:   params.LastTx,
		Tags:     params.Tags,
		Data:     params.Data,
		DataSize: int64(len(params.Data)),
	}
}

// SigningPayload returns the deep-hash digest the wallet signs. The
// digest commits to every consensus field: format, owner, target,
// quantity, reward, anchor, tags, data size, and a SHA-384 digest of
// the data payload.
func (tx *Transaction) SigningPayload() ([]byte, error) {
	owner, err := base64.RawURLEncoding.DecodeString(tx.Owner)
	if err != nil {
		return nil, fmt.Errorf("ledger: decoding owner: %w", err)
	}

	var target []byte
	if !tx.Target.IsZero() {
		target, err = base64.RawURLEncoding.DecodeString(tx.Target.String())
		if err != nil {
			return nil, fmt.Errorf("ledger: decoding target: %w", err)
		}
	}

	var lastTx []byte
	if tx.LastTx != "" {
		lastTx, err = base64.RawURLEncoding.DecodeString(tx.LastTx)
		if err != nil {
			return nil, fmt.Errorf("ledger: decoding anchor: %w", err)
		}
	}

	dataDigest := sha512.Sum384(tx.Data)
	digest := DeepHash(List(
		Blob([]byte(strconv.Itoa(tx.Format))),
		Blob(owner),
		Blob(target),
		Blob([]byte(tx.Quantity.String())),
		Blob([]byte(tx.Reward.String())),
		Blob(lastTx),
		tagElements(tx.Tags),
		Blob([]byte(strconv.FormatInt(tx.DataSize, 10))),
		Blob(dataDigest[:]),
	))
	return digest[:], nil
}

// Finalize attaches the signature produced over SigningPayload and
// derives the transaction ID from it.
func (tx *Transaction) Finalize(signature []byte) error {
	if len(signature) == 0 {
		return fmt.Errorf("ledger: empty signature")
	}
	tx.Signature = append([]byte(nil), signature...)
	tx.ID = TxIDFromDigest(sha256.Sum256(signature))
	return nil
}

// tagElements builds the deep-hash branch for a tag list: each tag is
// a two-element [name, value] list.
func tagElements(tags []Tag) Element {
	items := make([]Element, len(tags))
	for i, tag := range tags {
		items[i] = List(Blob([]byte(tag.Name)), Blob([]byte(tag.Value)))
	}
	return List(items...)
}

// wireTransaction is the JSON shape accepted by the gateway's
// transaction endpoint. All binary fields are unpadded base64url;
// amounts are decimal strings.
type wireTransaction struct {
	Format    int       `json:"format"`
	ID        string    `json:"id"`
	LastTx    string    `json:"last_tx"`
	Owner     string    `json:"owner"`
	Tags      []wireTag `json:"tags"`
	Target    string    `json:"target"`
	Quantity  string    `json:"quantity"`
	DataSize  string    `json:"data_size"`
	Data      string    `json:"data"`
	Reward    string    `json:"reward"`
	Signature string    `json:"signature"`
}

type wireTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MarshalJSON serializes the transaction in gateway wire form. Payloads
// up to MaxChunkSize are inlined in the data field; larger payloads are
// omitted here and travel separately as chunks.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	wire := wireTransaction{
		Format:    tx.Format,
		ID:        tx.ID.String(),
		LastTx:    tx.LastTx,
		Owner:     tx.Owner,
		Tags:      make([]wireTag, len(tx.Tags)),
		Target:    tx.Target.String(),
		Quantity:  tx.Quantity.String(),
		DataSize:  strconv.FormatInt(tx.DataSize, 10),
		Reward:    tx.Reward.String(),
		Signature: base64.RawURLEncoding.EncodeToString(tx.Signature),
	}
	for i, tag := range tx.Tags {
		wire.Tags[i] = wireTag{
			Name:  base64.RawURLEncoding.EncodeToString([]byte(tag.Name)),
			Value: base64.RawURLEncoding.EncodeToString([]byte(tag.Value)),
		}
	}
	if tx.DataSize <= MaxChunkSize {
		wire.Data = base64.RawURLEncoding.EncodeToString(tx.Data)
	}
	return json.Marshal(wire)
}
