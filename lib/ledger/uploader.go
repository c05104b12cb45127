// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/petershepherd/ardrive-cli/lib/clock"
)

// MaxChunkSize is the largest data chunk posted to the gateway, and
// the threshold below which a transaction's payload is inlined in the
// header post instead of being chunked.
const MaxChunkSize = 256 * 1024

// maxChunkRetries is the number of consecutive failed posts allowed
// before Run gives up and reports the upload incomplete.
const maxChunkRetries = 5

// chunkRetryBackoff is the pause between a failed post and the retry.
const chunkRetryBackoff = 2 * time.Second

// UploadStatus is the lifecycle state of a chunked upload. There is no
// failed state: an upload that stops early stays resumable, because
// chunks already accepted by the gateway are never lost.
type UploadStatus string

const (
	// UploadPending means the transaction header has not been posted.
	UploadPending UploadStatus = "pending"
	// UploadInProgress means the header is posted and data chunks
	// are still outstanding.
	UploadInProgress UploadStatus = "uploading"
	// UploadComplete means the header and every data chunk have been
	// accepted.
	UploadComplete UploadStatus = "complete"
)

// Chunk is one contiguous piece of a transaction's data payload.
type Chunk struct {
	TxID   TxID
	Offset int64
	Data   []byte
}

// TransportSink is the write side of the ledger: it accepts
// transaction headers and data chunks. gateway.Client is the
// production implementation.
type TransportSink interface {
	// SubmitTransaction posts a signed transaction header. Payloads
	// at or below MaxChunkSize ride along inline.
	SubmitTransaction(ctx context.Context, tx *Transaction) error

	// PostChunk posts one data chunk of a previously submitted
	// transaction.
	PostChunk(ctx context.Context, chunk *Chunk) error
}

// Submitter is the full write-side surface of a ledger node: the
// TransportSink posts plus the reads every write needs first (fee
// estimate, balance, anchor). gateway.Client is the production
// implementation.
type Submitter interface {
	TransportSink

	// Price returns the network fee estimate for storing size bytes.
	Price(ctx context.Context, size int64) (Winston, error)

	// Balance returns the winston balance of a wallet address.
	Balance(ctx context.Context, address Address) (Winston, error)

	// TxAnchor returns a recent anchor value for the LastTx field of
	// new transactions.
	TxAnchor(ctx context.Context) (string, error)
}

// UploaderConfig holds configuration for creating a
// TransactionUploader.
type UploaderConfig struct {
	// Sink receives the header and chunks. Required.
	Sink TransportSink
	// Clock paces retry backoff. If nil, clock.Real() is used.
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
	// Progress, if set, is called after the header post and after
	// each accepted chunk with the number of accepted chunks and the
	// total chunk count.
	Progress func(uploaded, total int)
}

// TransactionUploader drives a signed transaction onto the ledger one
// step at a time: first the header, then each data chunk in order.
// Its state survives process restarts via Snapshot and
// ResumeTransactionUploader, so a large upload interrupted halfway
// picks up where it left off instead of re-posting accepted chunks.
//
// The uploader is not safe for concurrent use. Run is the usual entry
// point; UploadChunk exposes single-stepping for callers that manage
// their own pacing.
type TransactionUploader struct {
	sink     TransportSink
	clock    clock.Clock
	logger   *slog.Logger
	progress func(uploaded, total int)

	tx           *Transaction
	chunks       []Chunk
	headerPosted bool
	uploaded     int

	// complete is set when the final outstanding piece is accepted.
	// It is explicit state rather than derived from the counters so
	// that a resumed snapshot can present the inconsistent
	// "no chunk left but never completed" condition, which surfaces
	// as an IncompleteUploadError instead of silently passing.
	complete bool
}

// NewTransactionUploader prepares an uploader for a finalized
// transaction. Returns an error if the transaction is unsigned or the
// sink is missing.
func NewTransactionUploader(tx *Transaction, config UploaderConfig) (*TransactionUploader, error) {
	if tx == nil {
		return nil, fmt.Errorf("ledger: nil transaction")
	}
	if tx.ID.IsZero() {
		return nil, fmt.Errorf("ledger: transaction is not signed")
	}
	if config.Sink == nil {
		return nil, fmt.Errorf("ledger: Sink is required")
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TransactionUploader{
		sink:     config.Sink,
		clock:    clk,
		logger:   logger,
		progress: config.Progress,
		tx:       tx,
		chunks:   chunkify(tx),
	}, nil
}

// chunkify splits a transaction's payload into gateway-sized chunks.
// Payloads small enough to inline in the header produce no chunks.
func chunkify(tx *Transaction) []Chunk {
	if tx.DataSize <= MaxChunkSize {
		return nil
	}
	var chunks []Chunk
	for offset := int64(0); offset < tx.DataSize; offset += MaxChunkSize {
		end := offset + MaxChunkSize
		if end > tx.DataSize {
			end = tx.DataSize
		}
		chunks = append(chunks, Chunk{
			TxID:   tx.ID,
			Offset: offset,
			Data:   tx.Data[offset:end],
		})
	}
	return chunks
}

// Status returns the uploader's lifecycle state.
func (u *TransactionUploader) Status() UploadStatus {
	switch {
	case u.complete:
		return UploadComplete
	case !u.headerPosted:
		return UploadPending
	default:
		return UploadInProgress
	}
}

// IsComplete reports whether the header and all chunks have been
// accepted.
func (u *TransactionUploader) IsComplete() bool {
	return u.complete
}

// TotalChunks returns the number of data chunks. Zero for payloads
// that inline in the header.
func (u *TransactionUploader) TotalChunks() int { return len(u.chunks) }

// UploadedChunks returns the number of accepted data chunks.
func (u *TransactionUploader) UploadedChunks() int { return u.uploaded }

// PercentComplete returns upload progress as a whole percentage.
func (u *TransactionUploader) PercentComplete() int {
	if u.IsComplete() {
		return 100
	}
	if len(u.chunks) == 0 {
		return 0
	}
	return u.uploaded * 100 / len(u.chunks)
}

// UploadChunk performs exactly one upload step: the header post if it
// is still outstanding, otherwise the next data chunk. Calling it on a
// complete upload is a no-op. A failed step leaves the state unchanged
// so the same step can be retried.
//
// Returns an IncompleteUploadError if the uploader is not complete yet
// has no pending piece to post, a state only reachable by resuming a
// snapshot that recorded an inconsistent history.
func (u *TransactionUploader) UploadChunk(ctx context.Context) error {
	if u.IsComplete() {
		return nil
	}

	if !u.headerPosted {
		if err := u.sink.SubmitTransaction(ctx, u.tx); err != nil {
			return fmt.Errorf("posting transaction header: %w", err)
		}
		u.headerPosted = true
		if len(u.chunks) == 0 {
			u.complete = true
		}
		u.logger.Debug("transaction header posted",
			"tx_id", u.tx.ID,
			"data_size", u.tx.DataSize,
			"chunks", len(u.chunks))
		u.reportProgress()
		return nil
	}

	if u.uploaded >= len(u.chunks) {
		return &IncompleteUploadError{
			TxID:     u.tx.ID,
			Uploaded: u.uploaded,
			Total:    len(u.chunks),
		}
	}

	chunk := u.chunks[u.uploaded]
	if err := u.sink.PostChunk(ctx, &chunk); err != nil {
		return fmt.Errorf("posting chunk at offset %d: %w", chunk.Offset, err)
	}
	u.uploaded++
	if u.uploaded == len(u.chunks) {
		u.complete = true
	}
	u.reportProgress()
	return nil
}

func (u *TransactionUploader) reportProgress() {
	if u.progress != nil {
		u.progress(u.uploaded, len(u.chunks))
	}
}

// Run drives the upload to completion, retrying failed posts with a
// fixed backoff until maxChunkRetries consecutive failures. A
// transaction that is already complete returns immediately.
//
// On retry exhaustion the error is an IncompleteUploadError wrapping
// the last transport failure; the uploader's snapshot remains valid
// for resumption.
func (u *TransactionUploader) Run(ctx context.Context) error {
	failures := 0
	for !u.IsComplete() {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := u.UploadChunk(ctx)
		if err == nil {
			failures = 0
			continue
		}
		if IsIncompleteUpload(err) {
			// The state machine itself ran dry. Retrying cannot help.
			return err
		}

		failures++
		if failures > maxChunkRetries {
			return &IncompleteUploadError{
				TxID:     u.tx.ID,
				Uploaded: u.uploaded,
				Total:    len(u.chunks),
				Err:      err,
			}
		}
		u.logger.Debug("upload step failed, retrying",
			"tx_id", u.tx.ID,
			"error", err,
			"attempt", failures,
			"max_attempts", maxChunkRetries)

		select {
		case <-u.clock.After(chunkRetryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// UploadSnapshot is the serializable state of an in-flight upload.
// Persist it with codec.Marshal and restore with
// ResumeTransactionUploader.
type UploadSnapshot struct {
	TxID           string `cbor:"txId"`
	TotalChunks    int    `cbor:"totalChunks"`
	UploadedChunks int    `cbor:"uploadedChunks"`
	HeaderPosted   bool   `cbor:"headerPosted"`
	Complete       bool   `cbor:"complete"`
}

// Snapshot captures the uploader's current state.
func (u *TransactionUploader) Snapshot() UploadSnapshot {
	return UploadSnapshot{
		TxID:           u.tx.ID.String(),
		TotalChunks:    len(u.chunks),
		UploadedChunks: u.uploaded,
		HeaderPosted:   u.headerPosted,
		Complete:       u.complete,
	}
}

// ResumeTransactionUploader rebuilds an uploader from a snapshot taken
// by an earlier process. The transaction must be the same one the
// snapshot was taken from; mismatches in identity or chunk layout are
// rejected.
func ResumeTransactionUploader(tx *Transaction, snapshot UploadSnapshot, config UploaderConfig) (*TransactionUploader, error) {
	uploader, err := NewTransactionUploader(tx, config)
	if err != nil {
		return nil, err
	}
	if snapshot.TxID != tx.ID.String() {
		return nil, fmt.Errorf("ledger: snapshot is for transaction %s, not %s", snapshot.TxID, tx.ID)
	}
	if snapshot.TotalChunks != len(uploader.chunks) {
		return nil, fmt.Errorf("ledger: snapshot has %d chunks, transaction has %d", snapshot.TotalChunks, len(uploader.chunks))
	}
	if snapshot.UploadedChunks < 0 || snapshot.UploadedChunks > snapshot.TotalChunks {
		return nil, fmt.Errorf("ledger: snapshot uploaded count %d out of range [0, %d]", snapshot.UploadedChunks, snapshot.TotalChunks)
	}
	if snapshot.UploadedChunks > 0 && !snapshot.HeaderPosted {
		return nil, fmt.Errorf("ledger: snapshot has uploaded chunks but no header post")
	}
	if snapshot.Complete && snapshot.UploadedChunks != snapshot.TotalChunks {
		return nil, fmt.Errorf("ledger: snapshot marked complete at %d/%d chunks", snapshot.UploadedChunks, snapshot.TotalChunks)
	}
	uploader.headerPosted = snapshot.HeaderPosted
	uploader.uploaded = snapshot.UploadedChunks
	uploader.complete = snapshot.Complete
	return uploader, nil
}
