// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"errors"
	"fmt"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/pst"
)

// ErrorKind classifies operation failures so callers can make
// programmatic decisions (retry the missing sub-step, fix input,
// re-prompt for a key) without parsing error message text.
type ErrorKind string

const (
	// KindNotFound means a referenced entity has zero ledger records:
	// the identifier is wrong, the records are not indexed yet, or the
	// query used the wrong privacy filter. Retrying with the same
	// identifier usually will not help.
	KindNotFound ErrorKind = "not_found"

	// KindConsistency means a linkage assertion failed: the stated
	// parent folder belongs to a different drive than the operation
	// named. The caller should fix the identifiers.
	KindConsistency ErrorKind = "consistency"

	// KindDecryption means a private payload could not be opened with
	// the supplied key. The caller should re-check the passphrase or
	// key material.
	KindDecryption ErrorKind = "decryption"

	// KindValidation means the caller's input was rejected before any
	// submission: a tag collides with the protocol vocabulary, or the
	// wallet balance cannot cover the estimated total. Fix the input
	// (or fund the wallet) and retry.
	KindValidation ErrorKind = "validation"

	// KindSelection means the community tip lottery had no token
	// holders to draw from. There is no default recipient; the upload
	// can be retried without a tip.
	KindSelection ErrorKind = "selection"

	// KindTransportIncomplete means a chunked upload stopped before
	// completion without an explicit failure. The accepted chunks are
	// not lost; resuming the same transaction picks up where it
	// stopped.
	KindTransportIncomplete ErrorKind = "transport_incomplete"

	// KindUnknown is every other failure, transport errors included.
	KindUnknown ErrorKind = ""
)

// Classify maps an error chain to its taxonomy kind. Typed errors from
// the entity, oracle, and upload layers are recognized alongside this
// package's own; wrapped chains classify by the innermost match.
func Classify(err error) ErrorKind {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return KindNotFound
	}
	var consistency *ConsistencyError
	if errors.As(err, &consistency) {
		return KindConsistency
	}
	if arfs.IsDecryption(err) {
		return KindDecryption
	}
	var balance *InsufficientBalanceError
	if arfs.IsProtectedTag(err) || errors.As(err, &balance) {
		return KindValidation
	}
	if errors.Is(err, pst.ErrNoTokenHolders) {
		return KindSelection
	}
	if ledger.IsIncompleteUpload(err) {
		return KindTransportIncomplete
	}
	return KindUnknown
}

// NotFoundError reports an entity identifier with zero matching ledger
// records. For private entities queried with the wrong privacy filter
// the ledger looks exactly the same as for an absent entity, so both
// cases surface here.
type NotFoundError struct {
	// EntityType is "drive", "folder", or "file".
	EntityType string
	// ID is the entity identifier that matched nothing.
	ID arfs.EntityID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ardrive: %s %s has no ledger records", e.EntityType, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// ConsistencyError reports a parent folder that belongs to a different
// drive than the operation named. Folder linkage never crosses drives.
type ConsistencyError struct {
	// ParentFolderID is the folder whose drive membership was checked.
	ParentFolderID arfs.EntityID
	// WantDriveID is the drive the operation named.
	WantDriveID arfs.EntityID
	// GotDriveID is the drive the parent folder actually belongs to.
	GotDriveID arfs.EntityID
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("ardrive: parent folder %s belongs to drive %s, not %s",
		e.ParentFolderID, e.GotDriveID, e.WantDriveID)
}

// InsufficientBalanceError reports that the wallet cannot cover the
// estimated cost of every transaction an operation would submit. It is
// raised before the first submission, so nothing is partially written.
type InsufficientBalanceError struct {
	// Balance is the wallet's current balance.
	Balance ledger.Winston
	// Required is the estimated total: every reward plus any tip.
	Required ledger.Winston
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("ardrive: balance %s winston cannot cover estimated total %s winston",
		e.Balance, e.Required)
}
