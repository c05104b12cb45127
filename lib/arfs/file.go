// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"encoding/json"
	"fmt"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// File is the built form of a file entity. A file is two ledger
// records: the metadata record this entity was decoded from, and the
// data record holding the raw bytes, reachable through DataTxID.
type File struct {
	// ID is the file's entity ID.
	ID EntityID

	// DriveID is the drive this file belongs to.
	DriveID EntityID

	// ParentFolderID names the containing folder. Files always have
	// one; only folders can be roots.
	ParentFolderID EntityID

	// Name is the file's display name, decrypted for private drives.
	Name string

	// Size is the byte length of the file's plaintext content.
	Size int64

	// LastModified is the source file's modification time in
	// milliseconds since the epoch, as recorded at upload.
	LastModified int64

	// DataTxID points at the ledger record holding the file bytes.
	DataTxID ledger.TxID

	// ContentType is the MIME type of the file content. For private
	// files this is the true type from the decrypted metadata; the
	// data record itself is tagged application/octet-stream.
	ContentType string

	// Cipher and CipherIV carry the encryption metadata of private
	// file metadata records, empty for public ones.
	Cipher   string
	CipherIV string

	// MetaTxID is the metadata record the file was built from.
	MetaTxID ledger.TxID

	// CreatedAt is the metadata record's Unix-Time tag in seconds.
	CreatedAt int64
}

// filePayload is the JSON wire form of a file metadata record.
type filePayload struct {
	Name             string      `json:"name"`
	Size             int64       `json:"size"`
	LastModifiedDate int64       `json:"lastModifiedDate"`
	DataTxID         ledger.TxID `json:"dataTxId"`
	DataContentType  string      `json:"dataContentType"`
}

// ParseFile decodes a file entity from a metadata record and its
// payload. The payload must already be plaintext; private records go
// through DecryptEntityPayload first, keyed by the file key.
func ParseFile(node ledger.Node, payload []byte) (*File, error) {
	fileID, err := entityIDTag(node, TagFileID)
	if err != nil {
		return nil, err
	}
	driveID, err := entityIDTag(node, TagDriveID)
	if err != nil {
		return nil, err
	}
	parentID, err := entityIDTag(node, TagParentFolderID)
	if err != nil {
		return nil, err
	}

	var decoded filePayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("record %s: bad file payload: %w", node.ID, err)
	}
	if decoded.Name == "" {
		return nil, fmt.Errorf("record %s: file payload has no name", node.ID)
	}
	if decoded.DataTxID.IsZero() {
		return nil, fmt.Errorf("record %s: file payload has no dataTxId", node.ID)
	}
	if decoded.Size < 0 {
		return nil, fmt.Errorf("record %s: file payload has negative size %d", node.ID, decoded.Size)
	}

	cipherName, _ := node.Tag(TagCipher)
	cipherIV, _ := node.Tag(TagCipherIV)

	return &File{
		ID:             fileID,
		DriveID:        driveID,
		ParentFolderID: parentID,
		Name:           decoded.Name,
		Size:           decoded.Size,
		LastModified:   decoded.LastModifiedDate,
		DataTxID:       decoded.DataTxID,
		ContentType:    decoded.DataContentType,
		Cipher:         cipherName,
		CipherIV:       cipherIV,
		MetaTxID:       node.ID,
		CreatedAt:      unixTimeTag(node),
	}, nil
}
