// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// ListedEntity is one row of a folder listing: a folder or a file
// decorated with its three path forms. Exactly one of Folder and File
// is set.
type ListedEntity struct {
	Folder *arfs.Folder
	File   *arfs.File

	// Path is the name path from the drive root: "/" for the root
	// folder itself, "/A/" for a folder named A under it, "/A/x.txt"
	// for a file in that folder.
	Path string

	// IDPath and TxPath mirror Path with entity IDs and metadata
	// transaction IDs as segments. For any row the three paths have
	// the same number of segments.
	IDPath string
	TxPath string
}

// ListFolder lists a folder and everything beneath it: the folder
// itself, every descendant folder, and every file whose parent is in
// that subtree, each reduced to its newest revision.
//
// Paths are computed against the full drive hierarchy, so listing a
// subtree still reports true root-relative positions. Rows come back
// sorted by Path, parents before children.
//
// Public listings (nil driveKey) are served from the snapshot cache
// when one is configured; decrypted private listings are never written
// to disk.
func (c *Client) ListFolder(ctx context.Context, folderID arfs.EntityID, driveKey *secret.Buffer) ([]ListedEntity, error) {
	cacheKey := "folder-listing/" + folderID.String()
	cacheable := c.cache != nil && driveKey == nil
	if cacheable {
		var cached []ListedEntity
		hit, err := c.cache.Get(cacheKey, &cached)
		if err != nil {
			c.logger.Debug("listing cache read failed", "folder_id", folderID, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	target, err := c.GetFolder(ctx, folderID, driveKey)
	if err != nil {
		return nil, err
	}
	folders, err := c.listDriveFolders(ctx, target.DriveID, driveKey)
	if err != nil {
		return nil, err
	}

	tree := arfs.NewFolderTree(folders)
	sub, err := tree.SubTree(folderID)
	if err != nil {
		return nil, err
	}
	folderIDs := sub.AllFolderIDs()

	files, err := c.listFilesInFolders(ctx, folderIDs, driveKey)
	if err != nil {
		return nil, err
	}

	listing := make([]ListedEntity, 0, len(folderIDs)+len(files))
	for _, id := range folderIDs {
		node, _ := sub.Node(id)
		entry, err := folderEntry(tree, node.Folder)
		if err != nil {
			return nil, err
		}
		listing = append(listing, entry)
	}
	for _, file := range files {
		entry, err := fileEntry(tree, file)
		if err != nil {
			return nil, err
		}
		listing = append(listing, entry)
	}
	slices.SortFunc(listing, func(a, b ListedEntity) int {
		if diff := strings.Compare(a.Path, b.Path); diff != 0 {
			return diff
		}
		return strings.Compare(a.IDPath, b.IDPath)
	})

	if cacheable {
		if err := c.cache.Put(cacheKey, listing); err != nil {
			c.logger.Debug("listing cache write failed", "folder_id", folderID, "error", err)
		}
	}
	return listing, nil
}

// listFilesInFolders fetches the newest revision of every file whose
// parent is one of the given folders, using a single value-list
// predicate rather than one query per folder.
func (c *Client) listFilesInFolders(ctx context.Context, folderIDs []arfs.EntityID, driveKey *secret.Buffer) ([]*arfs.File, error) {
	parents := make([]string, len(folderIDs))
	for i, id := range folderIDs {
		parents[i] = id.String()
	}
	nodes, err := c.queryAll(ctx, ledger.TagQuery{
		Tags: []ledger.TagFilter{
			{Name: arfs.TagEntityType, Values: []string{arfs.EntityTypeFile}},
			{Name: arfs.TagParentFolderID, Values: parents},
		},
	})
	if err != nil {
		return nil, err
	}
	winners := arfs.LatestRevisions(nodes, arfs.TagFileID)

	files := make([]*arfs.File, len(winners))
	errs := make([]error, len(winners))
	var wg sync.WaitGroup
	for i, node := range winners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			files[i], errs[i] = c.buildFile(ctx, driveKey, node)
		}()
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return files, nil
}

func folderEntry(tree *arfs.FolderTree, folder *arfs.Folder) (ListedEntity, error) {
	path, err := tree.Path(folder.ID)
	if err != nil {
		return ListedEntity{}, err
	}
	idPath, err := tree.IDPath(folder.ID)
	if err != nil {
		return ListedEntity{}, err
	}
	txPath, err := tree.TxPath(folder.ID)
	if err != nil {
		return ListedEntity{}, err
	}
	return ListedEntity{Folder: folder, Path: path, IDPath: idPath, TxPath: txPath}, nil
}

// fileEntry decorates a file with paths built from its parent folder's
// paths. Folder paths end in a slash, so appending the file's own
// segment keeps all three forms aligned.
func fileEntry(tree *arfs.FolderTree, file *arfs.File) (ListedEntity, error) {
	parentPath, err := tree.Path(file.ParentFolderID)
	if err != nil {
		return ListedEntity{}, err
	}
	parentIDPath, err := tree.IDPath(file.ParentFolderID)
	if err != nil {
		return ListedEntity{}, err
	}
	parentTxPath, err := tree.TxPath(file.ParentFolderID)
	if err != nil {
		return ListedEntity{}, err
	}
	return ListedEntity{
		File:   file,
		Path:   parentPath + file.Name,
		IDPath: parentIDPath + file.ID.String(),
		TxPath: parentTxPath + file.MetaTxID.String(),
	}, nil
}
