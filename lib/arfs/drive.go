// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"encoding/json"
	"fmt"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// Drive is the built form of a drive entity: the newest revision of
// every record sharing its Drive-Id, reduced and decoded. A drive owns
// a single root folder; all other folders and files of the drive hang
// below it.
type Drive struct {
	// ID is the drive's entity ID.
	ID EntityID

	// Name is the drive's display name, decrypted for private drives.
	Name string

	// RootFolderID points at the drive's root folder entity.
	RootFolderID EntityID

	// Privacy is DrivePrivacyPublic or DrivePrivacyPrivate. Records
	// without a Drive-Privacy tag read as public.
	Privacy string

	// AuthMode, Cipher, and CipherIV carry the encryption metadata of
	// private drives, exactly as tagged on the winning record. All are
	// empty for public drives. CipherIV is the tag's base64url text,
	// not decoded bytes.
	AuthMode string
	Cipher   string
	CipherIV string

	// MetaTxID is the record the drive was built from.
	MetaTxID ledger.TxID

	// CreatedAt is the record's Unix-Time tag in seconds, zero when
	// the tag is missing or malformed.
	CreatedAt int64
}

// IsPrivate reports whether the drive's records are encrypted.
func (d *Drive) IsPrivate() bool { return d.Privacy == DrivePrivacyPrivate }

// drivePayload is the JSON wire form of a drive metadata record.
type drivePayload struct {
	Name         string   `json:"name"`
	RootFolderID EntityID `json:"rootFolderId"`
}

// ParseDrive decodes a drive entity from a ledger record and its
// metadata payload. The payload must already be plaintext; private
// records go through DecryptEntityPayload first.
func ParseDrive(node ledger.Node, payload []byte) (*Drive, error) {
	driveID, err := entityIDTag(node, TagDriveID)
	if err != nil {
		return nil, err
	}

	var decoded drivePayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("record %s: bad drive payload: %w", node.ID, err)
	}
	if decoded.Name == "" {
		return nil, fmt.Errorf("record %s: drive payload has no name", node.ID)
	}
	if decoded.RootFolderID.IsZero() {
		return nil, fmt.Errorf("record %s: drive payload has no rootFolderId", node.ID)
	}

	privacy, ok := node.Tag(TagDrivePrivacy)
	if !ok {
		privacy = DrivePrivacyPublic
	}
	authMode, _ := node.Tag(TagDriveAuthMode)
	cipherName, _ := node.Tag(TagCipher)
	cipherIV, _ := node.Tag(TagCipherIV)

	return &Drive{
		ID:           driveID,
		Name:         decoded.Name,
		RootFolderID: decoded.RootFolderID,
		Privacy:      privacy,
		AuthMode:     authMode,
		Cipher:       cipherName,
		CipherIV:     cipherIV,
		MetaTxID:     node.ID,
		CreatedAt:    unixTimeTag(node),
	}, nil
}
