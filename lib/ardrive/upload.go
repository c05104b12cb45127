// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sync"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// UploadFileParams configures UploadFile.
type UploadFileParams struct {
	// ParentFolderID is the folder the file lands in. The folder's own
	// Drive-Id tag determines the file's drive.
	ParentFolderID arfs.EntityID

	// Name is the file's name within its folder.
	Name string

	// Data is the file's content. Empty is allowed.
	Data []byte

	// ContentType is the MIME type of Data. Empty infers it from
	// Name's extension, falling back to application/octet-stream.
	ContentType string

	// LastModified is the source file's mtime in milliseconds. Zero
	// stamps the current time.
	LastModified int64

	// DriveKey seals data and metadata of files in private drives,
	// each under the per-file key derived from it. Nil writes a public
	// file.
	DriveKey *secret.Buffer

	// Bundle packs the data and metadata records into one outer
	// transaction. The community tip, when enabled, is always a
	// separate transfer: bundle items cannot move tokens.
	Bundle bool

	// DryRun signs everything and reports identifiers, fees, and the
	// tip without submitting anything.
	DryRun bool

	// ExtraTags are added to the metadata record only.
	ExtraTags []ledger.Tag

	// Progress, when set, receives chunk progress of the data-bearing
	// transaction.
	Progress func(uploaded, total int)
}

// UploadFile writes a file into an existing folder: the data record
// first, then a metadata record pointing at it, plus a community tip
// transfer when the client has a tip oracle.
//
// The total cost (every reward plus the tip amount) is checked against
// the wallet balance before anything is submitted; a shortfall is an
// InsufficientBalanceError with nothing written. Past that point the
// submissions run concurrently and there is no rollback: an error
// names the records that failed, and the returned Result still carries
// every identifier, so a retry can re-submit just the missing pieces.
func (c *Client) UploadFile(ctx context.Context, params UploadFileParams) (*Result, error) {
	if err := c.requireWallet(); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, fmt.Errorf("ardrive: file name is required")
	}
	if params.ParentFolderID.IsZero() {
		return nil, fmt.Errorf("ardrive: parent folder ID is required")
	}

	driveID, err := c.GetDriveIDForFolder(ctx, params.ParentFolderID)
	if err != nil {
		return nil, fmt.Errorf("resolving parent folder: %w", err)
	}

	up := &fileUpload{
		params:       params,
		driveID:      driveID,
		fileID:       arfs.NewEntityID(),
		contentType:  params.ContentType,
		lastModified: params.LastModified,
	}
	if up.contentType == "" {
		up.contentType = inferContentType(params.Name)
	}
	if up.lastModified == 0 {
		up.lastModified = c.clock.Now().UnixMilli()
	}

	if params.Bundle {
		return c.uploadFileBundled(ctx, up)
	}
	return c.uploadFileIndividual(ctx, up)
}

// fileUpload carries one upload's resolved inputs between the build
// steps.
type fileUpload struct {
	params       UploadFileParams
	driveID      arfs.EntityID
	fileID       arfs.EntityID
	contentType  string
	lastModified int64
}

func (c *Client) uploadFileIndividual(ctx context.Context, up *fileUpload) (*Result, error) {
	dataProto, err := c.fileDataPrototype(up)
	if err != nil {
		return nil, err
	}
	dataTx, err := c.newSignedTransaction(ctx, dataProto, nil, ledger.Address{}, ledger.Winston{})
	if err != nil {
		return nil, err
	}

	metaProto, fileKey, err := c.fileMetadataPrototype(up, dataTx.ID)
	if err != nil {
		return nil, err
	}
	keyDelivered := false
	if fileKey != nil {
		defer func() {
			if !keyDelivered {
				fileKey.Close()
			}
		}()
	}
	if err := arfs.AssertProtectedTags(metaProto, up.params.ExtraTags); err != nil {
		return nil, err
	}
	metaTx, err := c.newSignedTransaction(ctx, metaProto, up.params.ExtraTags, ledger.Address{}, ledger.Winston{})
	if err != nil {
		return nil, err
	}

	var (
		tipTx *ledger.Transaction
		tip   TipResult
	)
	if c.oracle != nil {
		tipTx, tip, err = c.newSignedTipTransfer(ctx, dataTx.Reward)
		if err != nil {
			return nil, err
		}
	}

	required := dataTx.Reward.Add(metaTx.Reward)
	if tipTx != nil {
		required = required.Add(tipTx.Reward).Add(tip.Amount)
	}
	if err := c.checkBalance(ctx, required); err != nil {
		return nil, err
	}

	result := &Result{
		Created: []CreatedEntity{{
			Type:         arfs.EntityTypeFile,
			EntityID:     up.fileID,
			MetadataTxID: metaTx.ID,
			DataTxID:     dataTx.ID,
			Key:          fileKey,
		}},
	}
	result.addFee(dataTx.ID, dataTx.Reward)
	result.addFee(metaTx.ID, metaTx.Reward)
	if tipTx != nil {
		result.Tips = append(result.Tips, tip)
		result.addFee(tipTx.ID, tipTx.Reward)
	}
	keyDelivered = true

	if up.params.DryRun {
		c.logger.Info("dry run, skipping submission",
			"file_id", up.fileID,
			"required", required)
		return result, nil
	}

	subs := []submission{
		{name: "file data transaction", tx: dataTx, progress: up.params.Progress},
		{name: "file metadata transaction", tx: metaTx},
	}
	if tipTx != nil {
		subs = append(subs, submission{name: "community tip transfer", tx: tipTx})
	}
	if err := c.submitAll(ctx, subs); err != nil {
		return result, fmt.Errorf("uploading file %s: %w", up.fileID, err)
	}
	return result, nil
}

func (c *Client) uploadFileBundled(ctx context.Context, up *fileUpload) (*Result, error) {
	dataProto, err := c.fileDataPrototype(up)
	if err != nil {
		return nil, err
	}
	dataItem, err := c.newSignedDataItem(dataProto, nil)
	if err != nil {
		return nil, err
	}

	metaProto, fileKey, err := c.fileMetadataPrototype(up, dataItem.ID())
	if err != nil {
		return nil, err
	}
	keyDelivered := false
	if fileKey != nil {
		defer func() {
			if !keyDelivered {
				fileKey.Close()
			}
		}()
	}
	if err := arfs.AssertProtectedTags(metaProto, up.params.ExtraTags); err != nil {
		return nil, err
	}
	metaItem, err := c.newSignedDataItem(metaProto, up.params.ExtraTags)
	if err != nil {
		return nil, err
	}

	bundleTx, err := c.newBundleTransaction(ctx, []*ledger.DataItem{dataItem, metaItem})
	if err != nil {
		return nil, err
	}

	var (
		tipTx *ledger.Transaction
		tip   TipResult
	)
	if c.oracle != nil {
		tipTx, tip, err = c.newSignedTipTransfer(ctx, bundleTx.Reward)
		if err != nil {
			return nil, err
		}
	}

	required := bundleTx.Reward
	if tipTx != nil {
		required = required.Add(tipTx.Reward).Add(tip.Amount)
	}
	if err := c.checkBalance(ctx, required); err != nil {
		return nil, err
	}

	result := &Result{
		Created: []CreatedEntity{{
			Type:         arfs.EntityTypeFile,
			EntityID:     up.fileID,
			MetadataTxID: metaItem.ID(),
			DataTxID:     dataItem.ID(),
			BundledIn:    bundleTx.ID,
			Key:          fileKey,
		}},
	}
	result.addFee(bundleTx.ID, bundleTx.Reward)
	if tipTx != nil {
		result.Tips = append(result.Tips, tip)
		result.addFee(tipTx.ID, tipTx.Reward)
	}
	keyDelivered = true

	if up.params.DryRun {
		c.logger.Info("dry run, skipping submission",
			"file_id", up.fileID,
			"required", required)
		return result, nil
	}

	subs := []submission{
		{name: "file bundle", tx: bundleTx, progress: up.params.Progress},
	}
	if tipTx != nil {
		subs = append(subs, submission{name: "community tip transfer", tx: tipTx})
	}
	if err := c.submitAll(ctx, subs); err != nil {
		return result, fmt.Errorf("uploading file %s: %w", up.fileID, err)
	}
	return result, nil
}

func (c *Client) fileDataPrototype(up *fileUpload) (arfs.Prototype, error) {
	if up.params.DriveKey == nil {
		return arfs.NewPublicFileDataPrototype(up.params.Data, up.contentType, c.app), nil
	}
	return arfs.NewPrivateFileDataPrototype(up.params.Data, up.fileID, c.app, up.params.DriveKey)
}

// fileMetadataPrototype builds the metadata record pointing at the
// signed data record. For private files it also returns the derived
// file key, owned by the caller. Size and content type describe the
// plaintext regardless of privacy.
func (c *Client) fileMetadataPrototype(up *fileUpload, dataTxID ledger.TxID) (arfs.Prototype, *secret.Buffer, error) {
	meta := arfs.FileMeta{
		DriveID:         up.driveID,
		FileID:          up.fileID,
		ParentFolderID:  up.params.ParentFolderID,
		Name:            up.params.Name,
		Size:            int64(len(up.params.Data)),
		LastModified:    up.lastModified,
		DataTxID:        dataTxID,
		DataContentType: up.contentType,
		UnixTime:        c.unixTime(),
	}
	if up.params.DriveKey == nil {
		proto, err := arfs.NewPublicFileMetadataPrototype(meta, c.app)
		if err != nil {
			return nil, nil, err
		}
		return proto, nil, nil
	}
	return arfs.NewPrivateFileMetadataPrototype(meta, c.app, up.params.DriveKey)
}

// newSignedTipTransfer builds the community tip: a value transfer of
// the oracle-computed amount to the oracle-selected recipient. It
// carries no data, just the app identity and Tip-Type tags.
func (c *Client) newSignedTipTransfer(ctx context.Context, dataCost ledger.Winston) (*ledger.Transaction, TipResult, error) {
	amount, err := c.oracle.ComputeTip(ctx, dataCost)
	if err != nil {
		return nil, TipResult{}, fmt.Errorf("computing tip: %w", err)
	}
	recipient, err := c.oracle.SelectRecipient(ctx)
	if err != nil {
		return nil, TipResult{}, fmt.Errorf("selecting tip recipient: %w", err)
	}
	anchor, err := c.submitter.TxAnchor(ctx)
	if err != nil {
		return nil, TipResult{}, fmt.Errorf("fetching anchor: %w", err)
	}
	estimate, err := c.submitter.Price(ctx, 0)
	if err != nil {
		return nil, TipResult{}, fmt.Errorf("estimating transfer fee: %w", err)
	}

	tags := []ledger.Tag{
		{Name: arfs.TagAppName, Value: c.app.Name},
		{Name: arfs.TagAppVersion, Value: c.app.Version},
		{Name: arfs.TagTipType, Value: arfs.TipTypeDataUpload},
	}
	if boost, ok := c.rewards.BoostTag(); ok {
		tags = append(tags, boost)
	}

	tx := ledger.NewTransaction(ledger.TxParams{
		Owner:    c.wallet.Owner(),
		Target:   recipient,
		Quantity: amount,
		Reward:   c.rewards.Apply(estimate),
		LastTx:   anchor,
		Tags:     tags,
	})
	if err := c.signTransaction(tx); err != nil {
		return nil, TipResult{}, err
	}
	return tx, TipResult{TxID: tx.ID, Recipient: recipient, Amount: amount}, nil
}

// Balance reports the winston balance of an arbitrary address.
func (c *Client) Balance(ctx context.Context, address ledger.Address) (ledger.Winston, error) {
	return c.submitter.Balance(ctx, address)
}

// checkBalance fails with an InsufficientBalanceError when the wallet
// cannot cover the required total.
func (c *Client) checkBalance(ctx context.Context, required ledger.Winston) error {
	balance, err := c.submitter.Balance(ctx, c.wallet.Address())
	if err != nil {
		return fmt.Errorf("checking balance: %w", err)
	}
	if balance.Cmp(required) < 0 {
		return &InsufficientBalanceError{Balance: balance, Required: required}
	}
	return nil
}

// submission is one signed transaction queued for concurrent upload.
type submission struct {
	name     string
	tx       *ledger.Transaction
	progress func(uploaded, total int)
}

// submitAll runs the submissions concurrently and joins their errors.
// Ledger writes are irrevocable, so there is no rollback of the ones
// that succeeded; each error is prefixed with the submission's name so
// the caller knows which pieces to retry.
func (c *Client) submitAll(ctx context.Context, subs []submission) error {
	errs := make([]error, len(subs))
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.submit(ctx, sub.tx, sub.progress); err != nil {
				errs[i] = fmt.Errorf("%s %s: %w", sub.name, sub.tx.ID, err)
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// inferContentType maps a file name's extension to a MIME type.
func inferContentType(name string) string {
	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		return contentType
	}
	return arfs.ContentTypeOctetStream
}
