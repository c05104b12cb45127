// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// AppIdentity names the writing application in the App-Name and
// App-Version tags of every record it produces.
type AppIdentity struct {
	Name    string
	Version string
}

// DriveMeta carries the fields of a new drive revision.
type DriveMeta struct {
	DriveID      EntityID
	Name         string
	RootFolderID EntityID
	// UnixTime is the revision timestamp in seconds.
	UnixTime int64
}

// FolderMeta carries the fields of a new folder revision.
type FolderMeta struct {
	DriveID  EntityID
	FolderID EntityID
	// ParentFolderID is zero exactly for the drive's root folder,
	// whose record is written without a Parent-Folder-Id tag.
	ParentFolderID EntityID
	Name           string
	UnixTime       int64
}

// FileMeta carries the fields of a new file metadata revision. The
// data record must already exist (or at least be signed) so DataTxID
// is known.
type FileMeta struct {
	DriveID        EntityID
	FileID         EntityID
	ParentFolderID EntityID
	Name           string
	Size           int64
	// LastModified is the source file's mtime in milliseconds.
	LastModified    int64
	DataTxID        ledger.TxID
	DataContentType string
	UnixTime        int64
}

// Prototype is one ledger record under construction: the payload bytes
// to publish and the protocol tag set that must accompany them. A
// prototype is write-time-only and single-use; nothing retains it
// after the record is signed.
//
// Eight concrete types implement it, one per entity kind and privacy:
// drive, folder, file metadata, and file data, each public and
// private. Private prototypes seal their payload at construction, so
// Payload and Tags are consistent with each other (the Cipher-IV tag
// matches the sealed bytes).
type Prototype interface {
	// Payload returns the record's data bytes.
	Payload() ([]byte, error)

	// Tags returns the protocol tag set for the record.
	Tags() []ledger.Tag

	// ProtectedTagNames returns the tag names callers may not supply
	// themselves.
	ProtectedTagNames() []string
}

// protectedTagNames is the reserved vocabulary. Every prototype
// protects the whole set, not just the tags it happens to write, so a
// caller tag named Entity-Type is rejected even on a raw data record
// that carries no entity tags itself.
var protectedTagNames = []string{
	TagAppName, TagAppVersion, TagArFS, TagEntityType, TagUnixTime,
	TagDriveID, TagFolderID, TagParentFolderID, TagFileID,
	TagDrivePrivacy, TagDriveAuthMode, TagCipher, TagCipherIV,
	TagContentType, TagBoost, TagTipType,
}

// AssertProtectedTags rejects caller-supplied tags whose names collide
// with the prototype's protocol vocabulary. Caller tags are strictly
// additive; names are compared exactly (tag names are case-sensitive).
func AssertProtectedTags(proto Prototype, callerTags []ledger.Tag) error {
	protected := make(map[string]bool)
	for _, name := range proto.ProtectedTagNames() {
		protected[name] = true
	}
	for _, tag := range callerTags {
		if protected[tag.Name] {
			return &ProtectedTagError{Name: tag.Name}
		}
	}
	return nil
}

func baseEntityTags(app AppIdentity, entityType string, unixTime int64) []ledger.Tag {
	return []ledger.Tag{
		{Name: TagAppName, Value: app.Name},
		{Name: TagAppVersion, Value: app.Version},
		{Name: TagArFS, Value: Version},
		{Name: TagEntityType, Value: entityType},
		{Name: TagUnixTime, Value: strconv.FormatInt(unixTime, 10)},
	}
}

func cipherTags(iv []byte) []ledger.Tag {
	return []ledger.Tag{
		{Name: TagCipher, Value: CipherAES256GCM},
		{Name: TagCipherIV, Value: base64.RawURLEncoding.EncodeToString(iv)},
	}
}

// sealPayload encrypts a metadata payload at construction time so the
// IV in the tag set and the sealed bytes cannot drift apart.
func sealPayload(key *secret.Buffer, plaintext []byte) (sealed, iv []byte, err error) {
	sealed, iv, err = EncryptPayload(key, plaintext)
	if err != nil {
		return nil, nil, fmt.Errorf("sealing payload: %w", err)
	}
	return sealed, iv, nil
}

// PublicDrivePrototype serializes a public drive metadata record.
type PublicDrivePrototype struct {
	meta DriveMeta
	app  AppIdentity
}

// NewPublicDrivePrototype validates the drive fields and returns a
// prototype for the record.
func NewPublicDrivePrototype(meta DriveMeta, app AppIdentity) (*PublicDrivePrototype, error) {
	if err := validateDriveMeta(meta); err != nil {
		return nil, err
	}
	return &PublicDrivePrototype{meta: meta, app: app}, nil
}

func (p *PublicDrivePrototype) Payload() ([]byte, error) {
	return json.Marshal(drivePayload{Name: p.meta.Name, RootFolderID: p.meta.RootFolderID})
}

func (p *PublicDrivePrototype) Tags() []ledger.Tag {
	tags := baseEntityTags(p.app, EntityTypeDrive, p.meta.UnixTime)
	return append(tags,
		ledger.Tag{Name: TagDriveID, Value: p.meta.DriveID.String()},
		ledger.Tag{Name: TagDrivePrivacy, Value: DrivePrivacyPublic},
		ledger.Tag{Name: TagContentType, Value: ContentTypeJSON},
	)
}

func (p *PublicDrivePrototype) ProtectedTagNames() []string {
	return slices.Clone(protectedTagNames)
}

// PrivateDrivePrototype serializes a private drive metadata record:
// the same JSON payload as the public form, sealed under the drive
// key. The key itself never appears in the record.
type PrivateDrivePrototype struct {
	meta   DriveMeta
	app    AppIdentity
	sealed []byte
	iv     []byte
}

// NewPrivateDrivePrototype seals the drive metadata under driveKey.
// The driveKey is borrowed and NOT closed.
func NewPrivateDrivePrototype(meta DriveMeta, app AppIdentity, driveKey *secret.Buffer) (*PrivateDrivePrototype, error) {
	if err := validateDriveMeta(meta); err != nil {
		return nil, err
	}
	plaintext, err := json.Marshal(drivePayload{Name: meta.Name, RootFolderID: meta.RootFolderID})
	if err != nil {
		return nil, fmt.Errorf("encoding drive payload: %w", err)
	}
	sealed, iv, err := sealPayload(driveKey, plaintext)
	if err != nil {
		return nil, err
	}
	return &PrivateDrivePrototype{meta: meta, app: app, sealed: sealed, iv: iv}, nil
}

func (p *PrivateDrivePrototype) Payload() ([]byte, error) { return p.sealed, nil }

func (p *PrivateDrivePrototype) Tags() []ledger.Tag {
	tags := baseEntityTags(p.app, EntityTypeDrive, p.meta.UnixTime)
	tags = append(tags,
		ledger.Tag{Name: TagDriveID, Value: p.meta.DriveID.String()},
		ledger.Tag{Name: TagDrivePrivacy, Value: DrivePrivacyPrivate},
		ledger.Tag{Name: TagDriveAuthMode, Value: DriveAuthModePassword},
		ledger.Tag{Name: TagContentType, Value: ContentTypeOctetStream},
	)
	return append(tags, cipherTags(p.iv)...)
}

func (p *PrivateDrivePrototype) ProtectedTagNames() []string {
	return slices.Clone(protectedTagNames)
}

// PublicFolderPrototype serializes a public folder metadata record.
type PublicFolderPrototype struct {
	meta FolderMeta
	app  AppIdentity
}

// NewPublicFolderPrototype validates the folder fields and returns a
// prototype for the record.
func NewPublicFolderPrototype(meta FolderMeta, app AppIdentity) (*PublicFolderPrototype, error) {
	if err := validateFolderMeta(meta); err != nil {
		return nil, err
	}
	return &PublicFolderPrototype{meta: meta, app: app}, nil
}

func (p *PublicFolderPrototype) Payload() ([]byte, error) {
	return json.Marshal(folderPayload{Name: p.meta.Name})
}

func (p *PublicFolderPrototype) Tags() []ledger.Tag {
	tags := baseEntityTags(p.app, EntityTypeFolder, p.meta.UnixTime)
	tags = append(tags,
		ledger.Tag{Name: TagDriveID, Value: p.meta.DriveID.String()},
		ledger.Tag{Name: TagFolderID, Value: p.meta.FolderID.String()},
	)
	tags = appendParentFolderTag(tags, p.meta.ParentFolderID)
	return append(tags, ledger.Tag{Name: TagContentType, Value: ContentTypeJSON})
}

func (p *PublicFolderPrototype) ProtectedTagNames() []string {
	return slices.Clone(protectedTagNames)
}

// PrivateFolderPrototype serializes a private folder metadata record,
// sealed under the drive key like private drive records.
type PrivateFolderPrototype struct {
	meta   FolderMeta
	app    AppIdentity
	sealed []byte
	iv     []byte
}

// NewPrivateFolderPrototype seals the folder metadata under driveKey.
// The driveKey is borrowed and NOT closed.
func NewPrivateFolderPrototype(meta FolderMeta, app AppIdentity, driveKey *secret.Buffer) (*PrivateFolderPrototype, error) {
	if err := validateFolderMeta(meta); err != nil {
		return nil, err
	}
	plaintext, err := json.Marshal(folderPayload{Name: meta.Name})
	if err != nil {
		return nil, fmt.Errorf("encoding folder payload: %w", err)
	}
	sealed, iv, err := sealPayload(driveKey, plaintext)
	if err != nil {
		return nil, err
	}
	return &PrivateFolderPrototype{meta: meta, app: app, sealed: sealed, iv: iv}, nil
}

func (p *PrivateFolderPrototype) Payload() ([]byte, error) { return p.sealed, nil }

func (p *PrivateFolderPrototype) Tags() []ledger.Tag {
	tags := baseEntityTags(p.app, EntityTypeFolder, p.meta.UnixTime)
	tags = append(tags,
		ledger.Tag{Name: TagDriveID, Value: p.meta.DriveID.String()},
		ledger.Tag{Name: TagFolderID, Value: p.meta.FolderID.String()},
	)
	tags = appendParentFolderTag(tags, p.meta.ParentFolderID)
	tags = append(tags, ledger.Tag{Name: TagContentType, Value: ContentTypeOctetStream})
	return append(tags, cipherTags(p.iv)...)
}

func (p *PrivateFolderPrototype) ProtectedTagNames() []string {
	return slices.Clone(protectedTagNames)
}

// PublicFileMetadataPrototype serializes a public file metadata
// record: the JSON payload naming the file and pointing at its data
// record.
type PublicFileMetadataPrototype struct {
	meta FileMeta
	app  AppIdentity
}

// NewPublicFileMetadataPrototype validates the file fields and returns
// a prototype for the record.
func NewPublicFileMetadataPrototype(meta FileMeta, app AppIdentity) (*PublicFileMetadataPrototype, error) {
	if err := validateFileMeta(meta); err != nil {
		return nil, err
	}
	return &PublicFileMetadataPrototype{meta: meta, app: app}, nil
}

func (p *PublicFileMetadataPrototype) Payload() ([]byte, error) {
	return json.Marshal(filePayload{
		Name:             p.meta.Name,
		Size:             p.meta.Size,
		LastModifiedDate: p.meta.LastModified,
		DataTxID:         p.meta.DataTxID,
		DataContentType:  p.meta.DataContentType,
	})
}

func (p *PublicFileMetadataPrototype) Tags() []ledger.Tag {
	tags := baseEntityTags(p.app, EntityTypeFile, p.meta.UnixTime)
	return append(tags,
		ledger.Tag{Name: TagDriveID, Value: p.meta.DriveID.String()},
		ledger.Tag{Name: TagFileID, Value: p.meta.FileID.String()},
		ledger.Tag{Name: TagParentFolderID, Value: p.meta.ParentFolderID.String()},
		ledger.Tag{Name: TagContentType, Value: ContentTypeJSON},
	)
}

func (p *PublicFileMetadataPrototype) ProtectedTagNames() []string {
	return slices.Clone(protectedTagNames)
}

// PrivateFileMetadataPrototype serializes a private file metadata
// record, sealed under the file's own derived key rather than the
// drive key, so the file can be shared without exposing the drive.
type PrivateFileMetadataPrototype struct {
	meta   FileMeta
	app    AppIdentity
	sealed []byte
	iv     []byte
}

// NewPrivateFileMetadataPrototype derives the per-file key from the
// drive key and the file's entity ID, seals the metadata under it, and
// returns the derived key alongside the prototype. The caller owns the
// returned key: it is the only way the file can later be decrypted or
// shared, and it must be closed when no longer needed.
//
// The driveKey is borrowed and NOT closed.
func NewPrivateFileMetadataPrototype(meta FileMeta, app AppIdentity, driveKey *secret.Buffer) (*PrivateFileMetadataPrototype, *secret.Buffer, error) {
	if err := validateFileMeta(meta); err != nil {
		return nil, nil, err
	}
	fileKey, err := DeriveFileKey(driveKey, meta.FileID)
	if err != nil {
		return nil, nil, err
	}
	plaintext, err := json.Marshal(filePayload{
		Name:             meta.Name,
		Size:             meta.Size,
		LastModifiedDate: meta.LastModified,
		DataTxID:         meta.DataTxID,
		DataContentType:  meta.DataContentType,
	})
	if err != nil {
		fileKey.Close()
		return nil, nil, fmt.Errorf("encoding file payload: %w", err)
	}
	sealed, iv, err := sealPayload(fileKey, plaintext)
	if err != nil {
		fileKey.Close()
		return nil, nil, err
	}
	proto := &PrivateFileMetadataPrototype{meta: meta, app: app, sealed: sealed, iv: iv}
	return proto, fileKey, nil
}

func (p *PrivateFileMetadataPrototype) Payload() ([]byte, error) { return p.sealed, nil }

func (p *PrivateFileMetadataPrototype) Tags() []ledger.Tag {
	tags := baseEntityTags(p.app, EntityTypeFile, p.meta.UnixTime)
	tags = append(tags,
		ledger.Tag{Name: TagDriveID, Value: p.meta.DriveID.String()},
		ledger.Tag{Name: TagFileID, Value: p.meta.FileID.String()},
		ledger.Tag{Name: TagParentFolderID, Value: p.meta.ParentFolderID.String()},
		ledger.Tag{Name: TagContentType, Value: ContentTypeOctetStream},
	)
	return append(tags, cipherTags(p.iv)...)
}

func (p *PrivateFileMetadataPrototype) ProtectedTagNames() []string {
	return slices.Clone(protectedTagNames)
}

// PublicFileDataPrototype wraps raw file bytes for publication. Data
// records carry no entity tags; the file metadata record points at
// them by transaction ID.
type PublicFileDataPrototype struct {
	data        []byte
	contentType string
	app         AppIdentity
}

// NewPublicFileDataPrototype wraps file bytes with their MIME type. An
// empty contentType defaults to application/octet-stream.
func NewPublicFileDataPrototype(data []byte, contentType string, app AppIdentity) *PublicFileDataPrototype {
	if contentType == "" {
		contentType = ContentTypeOctetStream
	}
	return &PublicFileDataPrototype{data: data, contentType: contentType, app: app}
}

func (p *PublicFileDataPrototype) Payload() ([]byte, error) { return p.data, nil }

func (p *PublicFileDataPrototype) Tags() []ledger.Tag {
	return []ledger.Tag{
		{Name: TagAppName, Value: p.app.Name},
		{Name: TagAppVersion, Value: p.app.Version},
		{Name: TagContentType, Value: p.contentType},
	}
}

func (p *PublicFileDataPrototype) ProtectedTagNames() []string {
	return slices.Clone(protectedTagNames)
}

// PrivateFileDataPrototype seals raw file bytes under the file's
// derived key. The true content type stays inside the (separately
// encrypted) metadata record; the data record is tagged opaque.
type PrivateFileDataPrototype struct {
	app    AppIdentity
	sealed []byte
	iv     []byte
}

// NewPrivateFileDataPrototype derives the per-file key from the drive
// key and fileID and seals the file bytes under it. The derivation is
// deterministic, so the key emitted by the file's metadata prototype
// opens this record too.
//
// The driveKey is borrowed and NOT closed.
func NewPrivateFileDataPrototype(data []byte, fileID EntityID, app AppIdentity, driveKey *secret.Buffer) (*PrivateFileDataPrototype, error) {
	fileKey, err := DeriveFileKey(driveKey, fileID)
	if err != nil {
		return nil, err
	}
	defer fileKey.Close()

	sealed, iv, err := sealPayload(fileKey, data)
	if err != nil {
		return nil, err
	}
	return &PrivateFileDataPrototype{app: app, sealed: sealed, iv: iv}, nil
}

func (p *PrivateFileDataPrototype) Payload() ([]byte, error) { return p.sealed, nil }

func (p *PrivateFileDataPrototype) Tags() []ledger.Tag {
	tags := []ledger.Tag{
		{Name: TagAppName, Value: p.app.Name},
		{Name: TagAppVersion, Value: p.app.Version},
		{Name: TagContentType, Value: ContentTypeOctetStream},
	}
	return append(tags, cipherTags(p.iv)...)
}

func (p *PrivateFileDataPrototype) ProtectedTagNames() []string {
	return slices.Clone(protectedTagNames)
}

func appendParentFolderTag(tags []ledger.Tag, parentID EntityID) []ledger.Tag {
	// The drive's root folder is written without a Parent-Folder-Id
	// tag; its absence is what marks the root on read.
	if parentID.IsZero() {
		return tags
	}
	return append(tags, ledger.Tag{Name: TagParentFolderID, Value: parentID.String()})
}

func validateDriveMeta(meta DriveMeta) error {
	if meta.DriveID.IsZero() {
		return fmt.Errorf("drive prototype: zero drive ID")
	}
	if meta.RootFolderID.IsZero() {
		return fmt.Errorf("drive prototype: zero root folder ID")
	}
	if meta.Name == "" {
		return fmt.Errorf("drive prototype: empty name")
	}
	return nil
}

func validateFolderMeta(meta FolderMeta) error {
	if meta.DriveID.IsZero() {
		return fmt.Errorf("folder prototype: zero drive ID")
	}
	if meta.FolderID.IsZero() {
		return fmt.Errorf("folder prototype: zero folder ID")
	}
	if meta.Name == "" {
		return fmt.Errorf("folder prototype: empty name")
	}
	return nil
}

func validateFileMeta(meta FileMeta) error {
	if meta.DriveID.IsZero() {
		return fmt.Errorf("file prototype: zero drive ID")
	}
	if meta.FileID.IsZero() {
		return fmt.Errorf("file prototype: zero file ID")
	}
	if meta.ParentFolderID.IsZero() {
		return fmt.Errorf("file prototype: zero parent folder ID")
	}
	if meta.Name == "" {
		return fmt.Errorf("file prototype: empty name")
	}
	if meta.Size < 0 {
		return fmt.Errorf("file prototype: negative size %d", meta.Size)
	}
	if meta.DataTxID.IsZero() {
		return fmt.Errorf("file prototype: zero data transaction ID")
	}
	return nil
}
