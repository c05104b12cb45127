// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"errors"
	"fmt"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// ErrUnrootedPath is returned by FolderTree path lookups when the walk
// from the target folder terminates at a node that is not a drive
// root: the tree is a subtree view, or the branch was orphaned by a
// missing or cyclic parent reference. Paths are only meaningful from a
// drive root.
var ErrUnrootedPath = errors.New("arfs: path is only defined from a drive root")

// DecryptionError reports that a private entity payload could not be
// opened: the key is wrong, the ciphertext is corrupted, or the record
// lacks usable cipher tags. The entity is never returned with a garbage
// name in its place.
//
// Callers can use errors.As to extract the offending record:
//
//	var decErr *arfs.DecryptionError
//	if errors.As(err, &decErr) {
//	    log.Warn("cannot open", "tx", decErr.TxID)
//	}
type DecryptionError struct {
	// TxID identifies the record whose payload failed to open.
	TxID ledger.TxID
	// Err is the underlying cause.
	Err error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("arfs: decrypt payload of %s: %v", e.TxID, e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// IsDecryption reports whether err is a DecryptionError.
func IsDecryption(err error) bool {
	var decErr *DecryptionError
	return errors.As(err, &decErr)
}

// ProtectedTagError reports a caller-supplied tag whose name collides
// with the entity protocol's reserved vocabulary. Caller tags are
// strictly additive; they may never shadow a protocol tag.
type ProtectedTagError struct {
	// Name is the offending tag name.
	Name string
}

func (e *ProtectedTagError) Error() string {
	return fmt.Sprintf("arfs: tag name %q is reserved by the entity protocol", e.Name)
}

// IsProtectedTag reports whether err is a ProtectedTagError.
func IsProtectedTag(err error) bool {
	var tagErr *ProtectedTagError
	return errors.As(err, &tagErr)
}
