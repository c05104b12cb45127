// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"context"
	"fmt"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// CreateDriveParams configures CreateDrive and CreatePrivateDrive.
type CreateDriveParams struct {
	// Name is the drive's name. The root folder takes the same name.
	Name string

	// Bundle packs the root folder and drive records into one outer
	// transaction instead of two individually submitted ones, making
	// creation atomic at the cost of per-record confirmation.
	Bundle bool

	// ExtraTags are added to both metadata records. Tag names must not
	// collide with protocol tags.
	ExtraTags []ledger.Tag
}

// CreateDrive writes a new public drive: a root folder record first,
// then the drive record pointing at it.
//
// On the individual-transaction path a failure between the two
// submissions leaves an orphan root folder with no drive record. The
// orphan is durable and detectable (the folder resolves while the
// drive does not), so CreateDrive reports it through the returned
// error together with the partial Result rather than retrying; the
// caller retries by writing a drive record with the same identifiers.
func (c *Client) CreateDrive(ctx context.Context, params CreateDriveParams) (*Result, error) {
	return c.createDrive(ctx, params, nil)
}

// CreatePrivateDrive writes a new private drive whose key is derived
// from the passphrase and the fresh drive ID. Both records are sealed
// before leaving this process; the ledger carries only ciphertext and
// per-record IVs.
//
// The derived drive key is returned in the drive's Created entry. The
// caller owns it and must Close it. The passphrase is borrowed and NOT
// closed.
func (c *Client) CreatePrivateDrive(ctx context.Context, params CreateDriveParams, passphrase *secret.Buffer) (*Result, error) {
	if passphrase == nil {
		return nil, fmt.Errorf("ardrive: passphrase is required for a private drive")
	}
	return c.createDrive(ctx, params, passphrase)
}

func (c *Client) createDrive(ctx context.Context, params CreateDriveParams, passphrase *secret.Buffer) (*Result, error) {
	if err := c.requireWallet(); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, fmt.Errorf("ardrive: drive name is required")
	}

	driveID := arfs.NewEntityID()
	rootFolderID := arfs.NewEntityID()
	now := c.unixTime()

	// The drive key is handed to the caller inside the Result on
	// success; every other path closes it here.
	var driveKey *secret.Buffer
	keyDelivered := false
	if passphrase != nil {
		key, err := arfs.DeriveDriveKey(passphrase, driveID)
		if err != nil {
			return nil, err
		}
		driveKey = key
		defer func() {
			if !keyDelivered {
				driveKey.Close()
			}
		}()
	}

	// Root folder first. Reparenting does not apply: the drive has no
	// root yet, so the folder's parent stays unset and the record
	// carries no Parent-Folder-Id tag.
	folderMeta := arfs.FolderMeta{
		DriveID:  driveID,
		FolderID: rootFolderID,
		Name:     params.Name,
		UnixTime: now,
	}
	driveMeta := arfs.DriveMeta{
		DriveID:      driveID,
		Name:         params.Name,
		RootFolderID: rootFolderID,
		UnixTime:     now,
	}

	var folderProto, driveProto arfs.Prototype
	if driveKey == nil {
		fp, err := arfs.NewPublicFolderPrototype(folderMeta, c.app)
		if err != nil {
			return nil, err
		}
		dp, err := arfs.NewPublicDrivePrototype(driveMeta, c.app)
		if err != nil {
			return nil, err
		}
		folderProto, driveProto = fp, dp
	} else {
		fp, err := arfs.NewPrivateFolderPrototype(folderMeta, c.app, driveKey)
		if err != nil {
			return nil, err
		}
		dp, err := arfs.NewPrivateDrivePrototype(driveMeta, c.app, driveKey)
		if err != nil {
			return nil, err
		}
		folderProto, driveProto = fp, dp
	}
	if err := arfs.AssertProtectedTags(folderProto, params.ExtraTags); err != nil {
		return nil, err
	}
	if err := arfs.AssertProtectedTags(driveProto, params.ExtraTags); err != nil {
		return nil, err
	}

	result := &Result{}

	if params.Bundle {
		folderItem, err := c.newSignedDataItem(folderProto, params.ExtraTags)
		if err != nil {
			return nil, err
		}
		driveItem, err := c.newSignedDataItem(driveProto, params.ExtraTags)
		if err != nil {
			return nil, err
		}
		bundleTx, err := c.newBundleTransaction(ctx, []*ledger.DataItem{folderItem, driveItem})
		if err != nil {
			return nil, err
		}
		if err := c.submit(ctx, bundleTx, nil); err != nil {
			return nil, fmt.Errorf("submitting drive bundle: %w", err)
		}
		result.Created = append(result.Created,
			CreatedEntity{
				Type:         arfs.EntityTypeFolder,
				EntityID:     rootFolderID,
				MetadataTxID: folderItem.ID(),
				BundledIn:    bundleTx.ID,
			},
			CreatedEntity{
				Type:         arfs.EntityTypeDrive,
				EntityID:     driveID,
				MetadataTxID: driveItem.ID(),
				BundledIn:    bundleTx.ID,
				Key:          driveKey,
			},
		)
		result.addFee(bundleTx.ID, bundleTx.Reward)
		keyDelivered = driveKey != nil
		return result, nil
	}

	// Individual path: sign both before submitting either, so a fee or
	// anchor failure cannot strand a half-written drive.
	folderTx, err := c.newSignedTransaction(ctx, folderProto, params.ExtraTags, ledger.Address{}, ledger.Winston{})
	if err != nil {
		return nil, err
	}
	driveTx, err := c.newSignedTransaction(ctx, driveProto, params.ExtraTags, ledger.Address{}, ledger.Winston{})
	if err != nil {
		return nil, err
	}

	if err := c.submit(ctx, folderTx, nil); err != nil {
		return nil, fmt.Errorf("submitting root folder record: %w", err)
	}
	result.Created = append(result.Created, CreatedEntity{
		Type:         arfs.EntityTypeFolder,
		EntityID:     rootFolderID,
		MetadataTxID: folderTx.ID,
	})
	result.addFee(folderTx.ID, folderTx.Reward)

	if err := c.submit(ctx, driveTx, nil); err != nil {
		return result, fmt.Errorf("drive record for %s failed after root folder %s was accepted; the folder is an orphan until a drive record pointing at it lands: %w",
			driveID, rootFolderID, err)
	}
	result.Created = append(result.Created, CreatedEntity{
		Type:         arfs.EntityTypeDrive,
		EntityID:     driveID,
		MetadataTxID: driveTx.ID,
		Key:          driveKey,
	})
	result.addFee(driveTx.ID, driveTx.Reward)
	keyDelivered = driveKey != nil
	return result, nil
}

// CreateFolderParams configures CreateFolder.
type CreateFolderParams struct {
	// DriveID is the drive the folder belongs to.
	DriveID arfs.EntityID

	// Name is the folder's name.
	Name string

	// ParentFolderID is the folder to attach under. Zero attaches the
	// new folder under the drive's existing root folder.
	ParentFolderID arfs.EntityID

	// DriveKey seals the metadata of folders in private drives. Nil
	// writes a public folder.
	DriveKey *secret.Buffer

	// Bundle submits the folder record as a data item inside a
	// single-item bundle instead of an individual transaction.
	Bundle bool

	// ExtraTags are added to the metadata record.
	ExtraTags []ledger.Tag
}

// CreateFolder writes a new folder record into an existing drive.
//
// When a parent folder is given, it must belong to the stated drive;
// a parent whose own Drive-Id tag names a different drive is a
// ConsistencyError and nothing is written. When no parent is given the
// folder is silently attached under the drive's root folder, so every
// folder lands somewhere inside its drive.
func (c *Client) CreateFolder(ctx context.Context, params CreateFolderParams) (*Result, error) {
	if err := c.requireWallet(); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, fmt.Errorf("ardrive: folder name is required")
	}
	if params.DriveID.IsZero() {
		return nil, fmt.Errorf("ardrive: drive ID is required")
	}

	parentID := params.ParentFolderID
	if parentID.IsZero() {
		root, err := c.driveRootFolder(ctx, params.DriveID, params.DriveKey)
		if err != nil {
			return nil, err
		}
		parentID = root
	} else {
		gotDrive, err := c.GetDriveIDForFolder(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if gotDrive != params.DriveID {
			return nil, &ConsistencyError{
				ParentFolderID: parentID,
				WantDriveID:    params.DriveID,
				GotDriveID:     gotDrive,
			}
		}
	}

	folderID := arfs.NewEntityID()
	meta := arfs.FolderMeta{
		DriveID:        params.DriveID,
		FolderID:       folderID,
		ParentFolderID: parentID,
		Name:           params.Name,
		UnixTime:       c.unixTime(),
	}

	var proto arfs.Prototype
	if params.DriveKey == nil {
		p, err := arfs.NewPublicFolderPrototype(meta, c.app)
		if err != nil {
			return nil, err
		}
		proto = p
	} else {
		p, err := arfs.NewPrivateFolderPrototype(meta, c.app, params.DriveKey)
		if err != nil {
			return nil, err
		}
		proto = p
	}
	if err := arfs.AssertProtectedTags(proto, params.ExtraTags); err != nil {
		return nil, err
	}

	result := &Result{}

	if params.Bundle {
		item, err := c.newSignedDataItem(proto, params.ExtraTags)
		if err != nil {
			return nil, err
		}
		bundleTx, err := c.newBundleTransaction(ctx, []*ledger.DataItem{item})
		if err != nil {
			return nil, err
		}
		if err := c.submit(ctx, bundleTx, nil); err != nil {
			return nil, fmt.Errorf("submitting folder bundle: %w", err)
		}
		result.Created = append(result.Created, CreatedEntity{
			Type:         arfs.EntityTypeFolder,
			EntityID:     folderID,
			MetadataTxID: item.ID(),
			BundledIn:    bundleTx.ID,
		})
		result.addFee(bundleTx.ID, bundleTx.Reward)
		return result, nil
	}

	tx, err := c.newSignedTransaction(ctx, proto, params.ExtraTags, ledger.Address{}, ledger.Winston{})
	if err != nil {
		return nil, err
	}
	if err := c.submit(ctx, tx, nil); err != nil {
		return nil, fmt.Errorf("submitting folder record: %w", err)
	}
	result.Created = append(result.Created, CreatedEntity{
		Type:         arfs.EntityTypeFolder,
		EntityID:     folderID,
		MetadataTxID: tx.ID,
	})
	result.addFee(tx.ID, tx.Reward)
	return result, nil
}

// driveRootFolder resolves a drive's root folder ID, decrypting the
// drive record when a key is supplied.
func (c *Client) driveRootFolder(ctx context.Context, driveID arfs.EntityID, driveKey *secret.Buffer) (arfs.EntityID, error) {
	var (
		drive *arfs.Drive
		err   error
	)
	if driveKey == nil {
		drive, err = c.GetDrive(ctx, driveID)
	} else {
		drive, err = c.GetPrivateDrive(ctx, driveID, driveKey)
	}
	if err != nil {
		return arfs.EntityID{}, err
	}
	return drive.RootFolderID, nil
}
