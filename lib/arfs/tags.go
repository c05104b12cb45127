// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

// Version is the entity protocol version written into the ArFS tag of
// every metadata record this client produces.
const Version = "0.11"

// Tag names of the entity protocol. All are literal and case-sensitive,
// both when written to the ledger and when used as query predicates.
const (
	TagAppName    = "App-Name"
	TagAppVersion = "App-Version"
	TagArFS       = "ArFS"
	TagEntityType = "Entity-Type"
	TagUnixTime   = "Unix-Time"

	TagDriveID        = "Drive-Id"
	TagFolderID       = "Folder-Id"
	TagParentFolderID = "Parent-Folder-Id"
	TagFileID         = "File-Id"

	TagDrivePrivacy  = "Drive-Privacy"
	TagDriveAuthMode = "Drive-Auth-Mode"
	TagCipher        = "Cipher"
	TagCipherIV      = "Cipher-IV"

	TagContentType = "Content-Type"

	// TagBoost is attached by the write layer when a fee multiple
	// greater than 1.0 was applied; TagTipType marks community-tip
	// transfers. Neither is a prototype tag, but both names are
	// reserved so callers cannot forge them.
	TagBoost   = "Boost"
	TagTipType = "Tip-Type"
)

// Entity-Type tag values.
const (
	EntityTypeDrive  = "drive"
	EntityTypeFolder = "folder"
	EntityTypeFile   = "file"
)

// Drive-Privacy tag values. A record without the tag is read as public.
const (
	DrivePrivacyPublic  = "public"
	DrivePrivacyPrivate = "private"
)

// DriveAuthModePassword is the only Drive-Auth-Mode this client writes:
// the drive key is derived from a user passphrase.
const DriveAuthModePassword = "password"

// TipTypeDataUpload is the fixed Tip-Type value on community-tip
// transfers attached to uploads.
const TipTypeDataUpload = "data upload"

// Content types written by the prototypes. Public metadata records are
// JSON; everything sealed is opaque bytes.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeOctetStream = "application/octet-stream"
)
