// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// CreatedEntity describes one entity a write operation published.
type CreatedEntity struct {
	// Type is "drive", "folder", or "file".
	Type string

	// EntityID is the entity's identifier, fixed before submission so
	// retries of a failed sub-step address the same entity.
	EntityID arfs.EntityID

	// MetadataTxID is the metadata record. When the write was bundled
	// this is the data item's ID inside the bundle.
	MetadataTxID ledger.TxID

	// DataTxID is the raw-data record of a file, zero for drives and
	// folders.
	DataTxID ledger.TxID

	// BundledIn is the outer bundle transaction when the write was
	// bundled, zero otherwise. Confirmation of the outer transaction
	// implies confirmation of the entity's records.
	BundledIn ledger.TxID

	// Key is the drive key of a private drive or the derived file key
	// of a private file, nil otherwise. The caller owns it and must
	// Close it; neither key can be recovered from the ledger.
	Key *secret.Buffer
}

// TipResult describes one community tip transfer.
type TipResult struct {
	// TxID is the tip transaction.
	TxID ledger.TxID
	// Recipient is the lottery-selected token holder.
	Recipient ledger.Address
	// Amount is the tip in winston.
	Amount ledger.Winston
}

// Result is what write operations return: everything created,
// every tip paid, and the network fee of every submitted transaction.
// Operations that fail partway return the Result for the sub-steps
// that did succeed alongside the error, so a caller can retry just the
// missing piece.
type Result struct {
	Created []CreatedEntity
	Tips    []TipResult
	Fees    map[ledger.TxID]ledger.Winston
}

// addFee records a submitted transaction's reward.
func (r *Result) addFee(id ledger.TxID, reward ledger.Winston) {
	if r.Fees == nil {
		r.Fees = make(map[ledger.TxID]ledger.Winston)
	}
	r.Fees[id] = reward
}
