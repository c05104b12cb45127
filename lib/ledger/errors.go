// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"errors"
	"fmt"
)

// IncompleteUploadError reports a chunked upload that stopped short of
// completion: either the transport kept failing until the retry budget
// ran out, or the uploader's state claims pending chunks that do not
// exist. The transaction may still confirm if enough chunks landed;
// the caller decides whether to resume or give up.
//
// Callers can use errors.As to extract the structured information:
//
//	var incomplete *ledger.IncompleteUploadError
//	if errors.As(err, &incomplete) {
//	    resume(incomplete.TxID)
//	}
type IncompleteUploadError struct {
	// TxID identifies the stalled transaction.
	TxID TxID
	// Uploaded and Total count data chunks, excluding the header post.
	Uploaded int
	Total    int
	// Err is the underlying transport failure, or nil when the state
	// machine itself ran out of chunks.
	Err error
}

func (e *IncompleteUploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger: upload of %s incomplete at %d/%d chunks: %v", e.TxID, e.Uploaded, e.Total, e.Err)
	}
	return fmt.Sprintf("ledger: upload of %s has no pending chunk at %d/%d", e.TxID, e.Uploaded, e.Total)
}

func (e *IncompleteUploadError) Unwrap() error { return e.Err }

// IsIncompleteUpload reports whether err is an IncompleteUploadError.
func IsIncompleteUpload(err error) bool {
	var incomplete *IncompleteUploadError
	return errors.As(err, &incomplete)
}
