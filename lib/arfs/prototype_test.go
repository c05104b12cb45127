// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

var testApp = AppIdentity{Name: "ArDrive-CLI", Version: "1.0.0"}

func testDriveMeta() DriveMeta {
	return DriveMeta{
		DriveID:      testEntityID(1),
		Name:         "photos",
		RootFolderID: testEntityID(2),
		UnixTime:     1700000000,
	}
}

func testFolderMeta(parent EntityID) FolderMeta {
	return FolderMeta{
		DriveID:        testEntityID(1),
		FolderID:       testEntityID(3),
		ParentFolderID: parent,
		Name:           "vacation",
		UnixTime:       1700000000,
	}
}

func testFileMeta() FileMeta {
	return FileMeta{
		DriveID:         testEntityID(1),
		FileID:          testEntityID(4),
		ParentFolderID:  testEntityID(3),
		Name:            "x.txt",
		Size:            11,
		LastModified:    1699999999000,
		DataTxID:        testTxID(9),
		DataContentType: "text/plain",
		UnixTime:        1700000000,
	}
}

// allPrototypes constructs one instance of each of the eight prototype
// variants.
func allPrototypes(t *testing.T, driveKey *secret.Buffer) map[string]Prototype {
	t.Helper()
	prototypes := make(map[string]Prototype)

	publicDrive, err := NewPublicDrivePrototype(testDriveMeta(), testApp)
	if err != nil {
		t.Fatalf("public drive: %v", err)
	}
	prototypes["public drive"] = publicDrive

	privateDrive, err := NewPrivateDrivePrototype(testDriveMeta(), testApp, driveKey)
	if err != nil {
		t.Fatalf("private drive: %v", err)
	}
	prototypes["private drive"] = privateDrive

	publicFolder, err := NewPublicFolderPrototype(testFolderMeta(testEntityID(2)), testApp)
	if err != nil {
		t.Fatalf("public folder: %v", err)
	}
	prototypes["public folder"] = publicFolder

	privateFolder, err := NewPrivateFolderPrototype(testFolderMeta(testEntityID(2)), testApp, driveKey)
	if err != nil {
		t.Fatalf("private folder: %v", err)
	}
	prototypes["private folder"] = privateFolder

	publicFileMeta, err := NewPublicFileMetadataPrototype(testFileMeta(), testApp)
	if err != nil {
		t.Fatalf("public file metadata: %v", err)
	}
	prototypes["public file metadata"] = publicFileMeta

	privateFileMeta, fileKey, err := NewPrivateFileMetadataPrototype(testFileMeta(), testApp, driveKey)
	if err != nil {
		t.Fatalf("private file metadata: %v", err)
	}
	t.Cleanup(func() { fileKey.Close() })
	prototypes["private file metadata"] = privateFileMeta

	prototypes["public file data"] = NewPublicFileDataPrototype([]byte("hello world"), "text/plain", testApp)

	privateFileData, err := NewPrivateFileDataPrototype([]byte("hello world"), testEntityID(4), testApp, driveKey)
	if err != nil {
		t.Fatalf("private file data: %v", err)
	}
	prototypes["private file data"] = privateFileData

	return prototypes
}

func TestAssertProtectedTagsRejectsProtocolNames(t *testing.T) {
	driveKey := testKey(t, 0x51)

	for name, proto := range allPrototypes(t, driveKey) {
		t.Run(name, func(t *testing.T) {
			for _, reserved := range []string{TagArFS, TagEntityType} {
				err := AssertProtectedTags(proto, []ledger.Tag{{Name: reserved, Value: "anything"}})
				if err == nil {
					t.Fatalf("caller tag %q accepted", reserved)
				}
				var tagErr *ProtectedTagError
				if !errors.As(err, &tagErr) {
					t.Fatalf("error is %T, want *ProtectedTagError", err)
				}
				if tagErr.Name != reserved {
					t.Errorf("error names %q, want %q", tagErr.Name, reserved)
				}
				if !IsProtectedTag(err) {
					t.Error("IsProtectedTag = false")
				}
			}

			if err := AssertProtectedTags(proto, []ledger.Tag{{Name: "My-App-Note", Value: "ok"}}); err != nil {
				t.Errorf("benign caller tag rejected: %v", err)
			}
		})
	}
}

func TestPublicDrivePrototype(t *testing.T) {
	meta := testDriveMeta()
	proto, err := NewPublicDrivePrototype(meta, testApp)
	if err != nil {
		t.Fatalf("NewPublicDrivePrototype: %v", err)
	}

	wantTags := map[string]string{
		TagAppName:      testApp.Name,
		TagAppVersion:   testApp.Version,
		TagArFS:         Version,
		TagEntityType:   EntityTypeDrive,
		TagUnixTime:     "1700000000",
		TagDriveID:      meta.DriveID.String(),
		TagDrivePrivacy: DrivePrivacyPublic,
		TagContentType:  ContentTypeJSON,
	}
	tags := proto.Tags()
	if len(tags) != len(wantTags) {
		t.Errorf("got %d tags, want %d: %v", len(tags), len(wantTags), tags)
	}
	for name, want := range wantTags {
		got, ok := ledger.FindTag(tags, name)
		if !ok {
			t.Errorf("tag %s missing", name)
			continue
		}
		if got != want {
			t.Errorf("tag %s = %q, want %q", name, got, want)
		}
	}

	payload, err := proto.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	var decoded drivePayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.Name != meta.Name || decoded.RootFolderID != meta.RootFolderID {
		t.Errorf("payload = %+v, want name %q root %v", decoded, meta.Name, meta.RootFolderID)
	}
}

func TestFolderPrototypeParentTag(t *testing.T) {
	withParent, err := NewPublicFolderPrototype(testFolderMeta(testEntityID(2)), testApp)
	if err != nil {
		t.Fatalf("NewPublicFolderPrototype: %v", err)
	}
	if _, ok := ledger.FindTag(withParent.Tags(), TagParentFolderID); !ok {
		t.Error("Parent-Folder-Id tag missing for a nested folder")
	}

	// The drive's root folder record is distinguished by the absence
	// of the Parent-Folder-Id tag.
	rootFolder, err := NewPublicFolderPrototype(testFolderMeta(EntityID{}), testApp)
	if err != nil {
		t.Fatalf("NewPublicFolderPrototype: %v", err)
	}
	if _, ok := ledger.FindTag(rootFolder.Tags(), TagParentFolderID); ok {
		t.Error("Parent-Folder-Id tag present on a root folder record")
	}
}

func TestPrivateDrivePrototypeRoundtrip(t *testing.T) {
	driveKey := testKey(t, 0x52)
	meta := testDriveMeta()

	proto, err := NewPrivateDrivePrototype(meta, testApp, driveKey)
	if err != nil {
		t.Fatalf("NewPrivateDrivePrototype: %v", err)
	}

	sealed, err := proto.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if bytes.Contains(sealed, []byte(meta.Name)) {
		t.Fatal("sealed drive payload leaks the drive name")
	}

	tags := proto.Tags()
	if privacy, _ := ledger.FindTag(tags, TagDrivePrivacy); privacy != DrivePrivacyPrivate {
		t.Errorf("Drive-Privacy = %q, want private", privacy)
	}
	if mode, _ := ledger.FindTag(tags, TagDriveAuthMode); mode != DriveAuthModePassword {
		t.Errorf("Drive-Auth-Mode = %q, want password", mode)
	}
	if contentType, _ := ledger.FindTag(tags, TagContentType); contentType != ContentTypeOctetStream {
		t.Errorf("Content-Type = %q, want octet-stream", contentType)
	}

	// A record assembled from the prototype must read back through the
	// standard decrypt-then-parse path.
	node := ledger.Node{ID: testTxID(1), Tags: tags}
	plaintext, err := DecryptEntityPayload(driveKey, node, sealed)
	if err != nil {
		t.Fatalf("DecryptEntityPayload: %v", err)
	}
	drive, err := ParseDrive(node, plaintext)
	if err != nil {
		t.Fatalf("ParseDrive: %v", err)
	}
	if drive.Name != meta.Name {
		t.Errorf("Name = %q, want %q", drive.Name, meta.Name)
	}
	if drive.RootFolderID != meta.RootFolderID {
		t.Errorf("RootFolderID = %v, want %v", drive.RootFolderID, meta.RootFolderID)
	}
	if !drive.IsPrivate() {
		t.Error("parsed drive is not private")
	}
}

func TestPrivateFolderPrototypeRoundtrip(t *testing.T) {
	driveKey := testKey(t, 0x53)
	meta := testFolderMeta(testEntityID(2))

	proto, err := NewPrivateFolderPrototype(meta, testApp, driveKey)
	if err != nil {
		t.Fatalf("NewPrivateFolderPrototype: %v", err)
	}
	sealed, err := proto.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}

	node := ledger.Node{ID: testTxID(2), Tags: proto.Tags()}
	plaintext, err := DecryptEntityPayload(driveKey, node, sealed)
	if err != nil {
		t.Fatalf("DecryptEntityPayload: %v", err)
	}
	folder, err := ParseFolder(node, plaintext)
	if err != nil {
		t.Fatalf("ParseFolder: %v", err)
	}
	if folder.Name != meta.Name {
		t.Errorf("Name = %q, want %q", folder.Name, meta.Name)
	}
	if folder.ParentFolderID != meta.ParentFolderID {
		t.Errorf("ParentFolderID = %v, want %v", folder.ParentFolderID, meta.ParentFolderID)
	}
}

func TestPrivateFileMetadataPrototypeEmitsFileKey(t *testing.T) {
	driveKey := testKey(t, 0x54)
	meta := testFileMeta()

	proto, fileKey, err := NewPrivateFileMetadataPrototype(meta, testApp, driveKey)
	if err != nil {
		t.Fatalf("NewPrivateFileMetadataPrototype: %v", err)
	}
	defer fileKey.Close()

	// The emitted key is the deterministic derivation, so a holder of
	// the drive key can reconstruct it later.
	derived, err := DeriveFileKey(driveKey, meta.FileID)
	if err != nil {
		t.Fatalf("DeriveFileKey: %v", err)
	}
	defer derived.Close()
	if !bytes.Equal(fileKey.Bytes(), derived.Bytes()) {
		t.Error("emitted file key differs from the derived file key")
	}

	// The file key, not the drive key, opens the metadata record.
	sealed, err := proto.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	node := ledger.Node{ID: testTxID(3), Tags: proto.Tags()}

	if _, err := DecryptEntityPayload(driveKey, node, sealed); !IsDecryption(err) {
		t.Errorf("drive key opened file metadata, err = %v", err)
	}
	plaintext, err := DecryptEntityPayload(fileKey, node, sealed)
	if err != nil {
		t.Fatalf("DecryptEntityPayload with file key: %v", err)
	}

	file, err := ParseFile(node, plaintext)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if file.Name != meta.Name || file.DataTxID != meta.DataTxID || file.ContentType != meta.DataContentType {
		t.Errorf("parsed file = %+v, want fields of %+v", file, meta)
	}
}

func TestPrivateFileDataPrototype(t *testing.T) {
	driveKey := testKey(t, 0x55)
	content := []byte("hello world")

	proto, err := NewPrivateFileDataPrototype(content, testEntityID(4), testApp, driveKey)
	if err != nil {
		t.Fatalf("NewPrivateFileDataPrototype: %v", err)
	}
	sealed, err := proto.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if bytes.Contains(sealed, content) {
		t.Fatal("sealed file data leaks plaintext")
	}
	if contentType, _ := ledger.FindTag(proto.Tags(), TagContentType); contentType != ContentTypeOctetStream {
		t.Errorf("Content-Type = %q, want octet-stream", contentType)
	}

	fileKey, err := DeriveFileKey(driveKey, testEntityID(4))
	if err != nil {
		t.Fatalf("DeriveFileKey: %v", err)
	}
	defer fileKey.Close()

	node := ledger.Node{ID: testTxID(5), Tags: proto.Tags()}
	opened, err := DecryptEntityPayload(fileKey, node, sealed)
	if err != nil {
		t.Fatalf("DecryptEntityPayload: %v", err)
	}
	if !bytes.Equal(opened, content) {
		t.Errorf("opened = %q, want %q", opened, content)
	}
}

func TestPublicFileDataPrototype(t *testing.T) {
	content := []byte("plain bytes")

	proto := NewPublicFileDataPrototype(content, "", testApp)
	payload, err := proto.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if !bytes.Equal(payload, content) {
		t.Error("public data payload differs from input bytes")
	}
	if contentType, _ := ledger.FindTag(proto.Tags(), TagContentType); contentType != ContentTypeOctetStream {
		t.Errorf("empty content type defaulted to %q, want octet-stream", contentType)
	}

	typed := NewPublicFileDataPrototype(content, "text/plain", testApp)
	if contentType, _ := ledger.FindTag(typed.Tags(), TagContentType); contentType != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", contentType)
	}
}

func TestPrototypeValidation(t *testing.T) {
	driveKey := testKey(t, 0x56)

	t.Run("drive", func(t *testing.T) {
		bad := testDriveMeta()
		bad.RootFolderID = EntityID{}
		if _, err := NewPublicDrivePrototype(bad, testApp); err == nil {
			t.Error("accepted drive meta without a root folder")
		}
		if _, err := NewPrivateDrivePrototype(bad, testApp, driveKey); err == nil {
			t.Error("accepted private drive meta without a root folder")
		}
	})

	t.Run("folder", func(t *testing.T) {
		bad := testFolderMeta(testEntityID(2))
		bad.Name = ""
		if _, err := NewPublicFolderPrototype(bad, testApp); err == nil {
			t.Error("accepted folder meta without a name")
		}
	})

	t.Run("file", func(t *testing.T) {
		bad := testFileMeta()
		bad.DataTxID = ledger.TxID{}
		if _, err := NewPublicFileMetadataPrototype(bad, testApp); err == nil {
			t.Error("accepted file meta without a data transaction")
		}
		if _, _, err := NewPrivateFileMetadataPrototype(bad, testApp, driveKey); err == nil {
			t.Error("accepted private file meta without a data transaction")
		}
	})
}
