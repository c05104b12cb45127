// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// queryAll pages a tag query to exhaustion. The cursor advances to the
// last edge seen; the loop continues exactly while the index reports
// another page, never inferring completion from a short or empty page.
func (c *Client) queryAll(ctx context.Context, query ledger.TagQuery) ([]ledger.Node, error) {
	var nodes []ledger.Node
	for {
		page, err := c.queryer.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		for _, edge := range page.Edges {
			nodes = append(nodes, edge.Node)
			query.Cursor = edge.Cursor
		}
		if !page.PageInfo.HasNextPage {
			return nodes, nil
		}
	}
}

// winningRevision collects every revision of one entity and reduces to
// the newest. Zero matching records is a NotFoundError.
func (c *Client) winningRevision(ctx context.Context, entityType, idTag string, id arfs.EntityID, extra ...ledger.TagFilter) (ledger.Node, error) {
	filters := []ledger.TagFilter{
		{Name: arfs.TagEntityType, Values: []string{entityType}},
		{Name: idTag, Values: []string{id.String()}},
	}
	filters = append(filters, extra...)

	nodes, err := c.queryAll(ctx, ledger.TagQuery{Tags: filters})
	if err != nil {
		return ledger.Node{}, err
	}
	winners := arfs.LatestRevisions(nodes, idTag)
	if len(winners) == 0 {
		return ledger.Node{}, &NotFoundError{EntityType: entityType, ID: id}
	}
	return winners[0], nil
}

// entityPayload fetches a revision's metadata payload, opening it with
// the given key when one is supplied. A nil key reads the payload as
// plaintext.
func (c *Client) entityPayload(ctx context.Context, key *secret.Buffer, node ledger.Node) ([]byte, error) {
	raw, err := c.queryer.TxData(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching payload of %s: %w", node.ID, err)
	}
	if key == nil {
		return raw, nil
	}
	return arfs.DecryptEntityPayload(key, node, raw)
}

// GetDrive fetches the current state of a public drive.
func (c *Client) GetDrive(ctx context.Context, driveID arfs.EntityID) (*arfs.Drive, error) {
	node, err := c.winningRevision(ctx, arfs.EntityTypeDrive, arfs.TagDriveID, driveID,
		ledger.TagFilter{Name: arfs.TagDrivePrivacy, Values: []string{arfs.DrivePrivacyPublic}})
	if err != nil {
		return nil, err
	}
	payload, err := c.entityPayload(ctx, nil, node)
	if err != nil {
		return nil, err
	}
	return arfs.ParseDrive(node, payload)
}

// GetPrivateDrive fetches the current state of a private drive,
// decrypting its metadata with the drive key. A wrong key surfaces as
// a DecryptionError, never as a garbage name.
func (c *Client) GetPrivateDrive(ctx context.Context, driveID arfs.EntityID, driveKey *secret.Buffer) (*arfs.Drive, error) {
	node, err := c.winningRevision(ctx, arfs.EntityTypeDrive, arfs.TagDriveID, driveID,
		ledger.TagFilter{Name: arfs.TagDrivePrivacy, Values: []string{arfs.DrivePrivacyPrivate}})
	if err != nil {
		return nil, err
	}
	payload, err := c.entityPayload(ctx, driveKey, node)
	if err != nil {
		return nil, err
	}
	return arfs.ParseDrive(node, payload)
}

// GetFolder fetches the current state of a folder. driveKey opens the
// metadata of folders in private drives; nil reads public folders.
func (c *Client) GetFolder(ctx context.Context, folderID arfs.EntityID, driveKey *secret.Buffer) (*arfs.Folder, error) {
	node, err := c.winningRevision(ctx, arfs.EntityTypeFolder, arfs.TagFolderID, folderID)
	if err != nil {
		return nil, err
	}
	return c.buildFolder(ctx, driveKey, node)
}

// GetFile fetches the current metadata state of a file. File metadata
// in private drives is sealed under the per-file key, which GetFile
// derives from the drive key itself; nil reads public files.
func (c *Client) GetFile(ctx context.Context, fileID arfs.EntityID, driveKey *secret.Buffer) (*arfs.File, error) {
	node, err := c.winningRevision(ctx, arfs.EntityTypeFile, arfs.TagFileID, fileID)
	if err != nil {
		return nil, err
	}
	return c.buildFile(ctx, driveKey, node)
}

// GetDriveIDForFolder resolves which drive a folder belongs to from the
// folder's tags alone, without fetching or decrypting any payload. It
// works identically for public and private folders, which makes it the
// probe of choice for detecting orphan folders left by a partial drive
// creation: the folder resolves, the drive does not.
func (c *Client) GetDriveIDForFolder(ctx context.Context, folderID arfs.EntityID) (arfs.EntityID, error) {
	node, err := c.winningRevision(ctx, arfs.EntityTypeFolder, arfs.TagFolderID, folderID)
	if err != nil {
		return arfs.EntityID{}, err
	}
	return driveIDFromNode(node, arfs.EntityTypeFolder, folderID)
}

// GetDriveIDForFile resolves which drive a file belongs to from its
// tags alone. Like GetDriveIDForFolder it needs no payload and no key,
// so it is the first step of every private-file operation that must
// derive a key before it can decrypt anything.
func (c *Client) GetDriveIDForFile(ctx context.Context, fileID arfs.EntityID) (arfs.EntityID, error) {
	node, err := c.winningRevision(ctx, arfs.EntityTypeFile, arfs.TagFileID, fileID)
	if err != nil {
		return arfs.EntityID{}, err
	}
	return driveIDFromNode(node, arfs.EntityTypeFile, fileID)
}

func driveIDFromNode(node ledger.Node, entityType string, id arfs.EntityID) (arfs.EntityID, error) {
	text, ok := node.Tag(arfs.TagDriveID)
	if !ok {
		return arfs.EntityID{}, fmt.Errorf("ardrive: %s %s revision %s carries no %s tag", entityType, id, node.ID, arfs.TagDriveID)
	}
	driveID, err := arfs.ParseEntityID(text)
	if err != nil {
		return arfs.EntityID{}, fmt.Errorf("ardrive: %s %s revision %s: %w", entityType, id, node.ID, err)
	}
	return driveID, nil
}

// ListDrives returns the current state of every public drive owned by
// the given wallet address, newest revision of each. Private drives
// are excluded: listing them requires their individual drive keys, so
// they are fetched one at a time via GetPrivateDrive.
func (c *Client) ListDrives(ctx context.Context, owner ledger.Address) ([]*arfs.Drive, error) {
	nodes, err := c.queryAll(ctx, ledger.TagQuery{
		Tags: []ledger.TagFilter{
			{Name: arfs.TagEntityType, Values: []string{arfs.EntityTypeDrive}},
			{Name: arfs.TagDrivePrivacy, Values: []string{arfs.DrivePrivacyPublic}},
		},
		Owner: owner,
	})
	if err != nil {
		return nil, err
	}
	winners := arfs.LatestRevisions(nodes, arfs.TagDriveID)

	drives := make([]*arfs.Drive, len(winners))
	errs := make([]error, len(winners))
	var wg sync.WaitGroup
	for i, node := range winners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			drives[i], errs[i] = c.buildDrive(ctx, node)
		}()
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return drives, nil
}

// listDriveFolders fetches the newest revision of every folder in a
// drive. Revision reduction happens before any payload fetch, so
// superseded folder records cost one query edge and nothing more.
func (c *Client) listDriveFolders(ctx context.Context, driveID arfs.EntityID, driveKey *secret.Buffer) ([]*arfs.Folder, error) {
	nodes, err := c.queryAll(ctx, ledger.TagQuery{
		Tags: []ledger.TagFilter{
			{Name: arfs.TagEntityType, Values: []string{arfs.EntityTypeFolder}},
			{Name: arfs.TagDriveID, Values: []string{driveID.String()}},
		},
	})
	if err != nil {
		return nil, err
	}
	winners := arfs.LatestRevisions(nodes, arfs.TagFolderID)

	// Each folder build is an independent fetch-and-decode; fan out
	// and join. Page order is preserved by index.
	folders := make([]*arfs.Folder, len(winners))
	errs := make([]error, len(winners))
	var wg sync.WaitGroup
	for i, node := range winners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			folders[i], errs[i] = c.buildFolder(ctx, driveKey, node)
		}()
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return folders, nil
}

func (c *Client) buildDrive(ctx context.Context, node ledger.Node) (*arfs.Drive, error) {
	payload, err := c.entityPayload(ctx, nil, node)
	if err != nil {
		return nil, err
	}
	return arfs.ParseDrive(node, payload)
}

func (c *Client) buildFolder(ctx context.Context, driveKey *secret.Buffer, node ledger.Node) (*arfs.Folder, error) {
	payload, err := c.entityPayload(ctx, driveKey, node)
	if err != nil {
		return nil, err
	}
	return arfs.ParseFolder(node, payload)
}

// buildFile decodes one file metadata revision. For private files the
// sealing key is the per-file key, derived here from the drive key and
// the record's own File-Id tag.
func (c *Client) buildFile(ctx context.Context, driveKey *secret.Buffer, node ledger.Node) (*arfs.File, error) {
	raw, err := c.queryer.TxData(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching payload of %s: %w", node.ID, err)
	}
	if driveKey == nil {
		return arfs.ParseFile(node, raw)
	}

	idText, ok := node.Tag(arfs.TagFileID)
	if !ok {
		return nil, fmt.Errorf("ardrive: file revision %s carries no %s tag", node.ID, arfs.TagFileID)
	}
	fileID, err := arfs.ParseEntityID(idText)
	if err != nil {
		return nil, fmt.Errorf("ardrive: file revision %s: %w", node.ID, err)
	}
	fileKey, err := arfs.DeriveFileKey(driveKey, fileID)
	if err != nil {
		return nil, err
	}
	defer fileKey.Close()

	payload, err := arfs.DecryptEntityPayload(fileKey, node, raw)
	if err != nil {
		return nil, err
	}
	return arfs.ParseFile(node, payload)
}
