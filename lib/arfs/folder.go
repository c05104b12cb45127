// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"encoding/json"
	"fmt"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// Folder is the built form of a folder entity. Folders form the
// skeleton of a drive: every folder except the drive's root names a
// parent folder, and NewFolderTree links a flat collection of them
// into a forest.
type Folder struct {
	// ID is the folder's entity ID.
	ID EntityID

	// DriveID is the drive this folder belongs to.
	DriveID EntityID

	// ParentFolderID names the containing folder. It is zero exactly
	// when IsRoot is true.
	ParentFolderID EntityID

	// IsRoot marks the drive's root folder: the one record written
	// without a Parent-Folder-Id tag. The marker is fixed at parse
	// time; path computation trusts it instead of re-deriving root
	// status per query.
	IsRoot bool

	// Name is the folder's display name, decrypted for private drives.
	Name string

	// Cipher and CipherIV carry the encryption metadata of private
	// folder records, empty for public ones.
	Cipher   string
	CipherIV string

	// MetaTxID is the record the folder was built from.
	MetaTxID ledger.TxID

	// CreatedAt is the record's Unix-Time tag in seconds.
	CreatedAt int64
}

// folderPayload is the JSON wire form of a folder metadata record.
type folderPayload struct {
	Name string `json:"name"`
}

// ParseFolder decodes a folder entity from a ledger record and its
// metadata payload. The payload must already be plaintext; private
// records go through DecryptEntityPayload first.
func ParseFolder(node ledger.Node, payload []byte) (*Folder, error) {
	folderID, err := entityIDTag(node, TagFolderID)
	if err != nil {
		return nil, err
	}
	driveID, err := entityIDTag(node, TagDriveID)
	if err != nil {
		return nil, err
	}

	// The root folder is the one folder of a drive written without a
	// Parent-Folder-Id tag.
	var parentID EntityID
	isRoot := true
	if _, ok := node.Tag(TagParentFolderID); ok {
		parentID, err = entityIDTag(node, TagParentFolderID)
		if err != nil {
			return nil, err
		}
		isRoot = false
	}

	var decoded folderPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("record %s: bad folder payload: %w", node.ID, err)
	}
	if decoded.Name == "" {
		return nil, fmt.Errorf("record %s: folder payload has no name", node.ID)
	}

	cipherName, _ := node.Tag(TagCipher)
	cipherIV, _ := node.Tag(TagCipherIV)

	return &Folder{
		ID:             folderID,
		DriveID:        driveID,
		ParentFolderID: parentID,
		IsRoot:         isRoot,
		Name:           decoded.Name,
		Cipher:         cipherName,
		CipherIV:       cipherIV,
		MetaTxID:       node.ID,
		CreatedAt:      unixTimeTag(node),
	}, nil
}
