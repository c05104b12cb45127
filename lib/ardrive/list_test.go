// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/cache"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// listingFixture is a drive with a subfolder and two files:
//
//	/            (root)
//	/A/          (folder)
//	/A/x.txt     (file in the subfolder)
//	/top.txt     (file directly under the root)
type listingFixture struct {
	drive     seededDrive
	folderAID arfs.EntityID
	folderATx ledger.TxID
	fileXID   arfs.EntityID
	fileXTx   ledger.TxID
	fileTopID arfs.EntityID
	fileTopTx ledger.TxID
	wantPaths []string
}

func seedListingDrive(fake *fakeLedger) listingFixture {
	owner := testAddress(0x10)
	d := seedPublicDrive(fake, owner, "docs", 0x20)

	fix := listingFixture{
		drive:     d,
		wantPaths: []string{"/", "/A/", "/A/x.txt", "/top.txt"},
	}
	fix.folderAID, fix.folderATx = seedFolder(fake, d, d.rootFolderID, "A", 0x30)
	fix.fileXID, fix.fileXTx = seedFile(fake, d, fix.folderAID, "x.txt", 0x40)
	fix.fileTopID, fix.fileTopTx = seedFile(fake, d, d.rootFolderID, "top.txt", 0x44)
	return fix
}

func listingPaths(listing []ListedEntity) []string {
	paths := make([]string, len(listing))
	for i, entry := range listing {
		paths[i] = entry.Path
	}
	return paths
}

func TestListFolderWholeDrive(t *testing.T) {
	fake := newFakeLedger()
	fix := seedListingDrive(fake)
	client, _ := testClient(t, fake)

	listing, err := client.ListFolder(context.Background(), fix.drive.rootFolderID, nil)
	if err != nil {
		t.Fatalf("ListFolder: %v", err)
	}
	if got := listingPaths(listing); !slices.Equal(got, fix.wantPaths) {
		t.Fatalf("paths = %q, want %q", got, fix.wantPaths)
	}

	for _, entry := range listing {
		if (entry.Folder == nil) == (entry.File == nil) {
			t.Errorf("entry %q does not have exactly one of Folder and File set", entry.Path)
		}
		// The three path forms stay segment-aligned per row.
		slashes := strings.Count(entry.Path, "/")
		if got := strings.Count(entry.IDPath, "/"); got != slashes {
			t.Errorf("entry %q: IDPath %q has %d slashes, want %d", entry.Path, entry.IDPath, got, slashes)
		}
		if got := strings.Count(entry.TxPath, "/"); got != slashes {
			t.Errorf("entry %q: TxPath %q has %d slashes, want %d", entry.Path, entry.TxPath, got, slashes)
		}
	}

	root := listing[0]
	if root.Folder == nil || !root.Folder.IsRoot || root.IDPath != "/" || root.TxPath != "/" {
		t.Errorf("root row = %+v, want the root folder at /", root)
	}

	fileX := listing[2]
	if fileX.File == nil || fileX.File.Name != "x.txt" {
		t.Fatalf("row 2 = %+v, want file x.txt", fileX)
	}
	wantIDPath := "/" + fix.folderAID.String() + "/" + fix.fileXID.String()
	if fileX.IDPath != wantIDPath {
		t.Errorf("x.txt IDPath = %q, want %q", fileX.IDPath, wantIDPath)
	}
	wantTxPath := "/" + fix.folderATx.String() + "/" + fix.fileXTx.String()
	if fileX.TxPath != wantTxPath {
		t.Errorf("x.txt TxPath = %q, want %q", fileX.TxPath, wantTxPath)
	}
}

func TestListFolderSubtreeKeepsRootRelativePaths(t *testing.T) {
	fake := newFakeLedger()
	fix := seedListingDrive(fake)
	client, _ := testClient(t, fake)

	listing, err := client.ListFolder(context.Background(), fix.folderAID, nil)
	if err != nil {
		t.Fatalf("ListFolder: %v", err)
	}
	// Only the subtree is listed, but positions stay drive-root
	// relative rather than restarting at the listed folder.
	want := []string{"/A/", "/A/x.txt"}
	if got := listingPaths(listing); !slices.Equal(got, want) {
		t.Fatalf("paths = %q, want %q", got, want)
	}
}

func TestListFolderNotFound(t *testing.T) {
	fake := newFakeLedger()
	client, _ := testClient(t, fake)

	_, err := client.ListFolder(context.Background(), arfs.NewEntityID(), nil)
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want not-found", err)
	}
}

func TestListFolderServedFromCache(t *testing.T) {
	store, err := cache.NewStore(cache.Config{Dir: t.TempDir(), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	withCache := func(config *Config) { config.Cache = store }

	fake := newFakeLedger()
	fix := seedListingDrive(fake)
	client, _ := testClient(t, fake, withCache)

	first, err := client.ListFolder(context.Background(), fix.drive.rootFolderID, nil)
	if err != nil {
		t.Fatalf("ListFolder: %v", err)
	}

	// A second client over an empty ledger but the same cache can only
	// answer from the snapshot.
	cachedClient, _ := testClient(t, newFakeLedger(), withCache)
	second, err := cachedClient.ListFolder(context.Background(), fix.drive.rootFolderID, nil)
	if err != nil {
		t.Fatalf("ListFolder from cache: %v", err)
	}
	if !slices.Equal(listingPaths(second), listingPaths(first)) {
		t.Errorf("cached paths = %q, want %q", listingPaths(second), listingPaths(first))
	}

	if err := store.Invalidate("folder-listing/" + fix.drive.rootFolderID.String()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := cachedClient.ListFolder(context.Background(), fix.drive.rootFolderID, nil); !IsNotFound(err) {
		t.Errorf("after invalidation the empty ledger answered: %v", err)
	}
}

func TestListFolderPrivateNeverCached(t *testing.T) {
	store, err := cache.NewStore(cache.Config{Dir: t.TempDir(), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	fake := newFakeLedger()
	client, _ := testClient(t, fake, func(config *Config) { config.Cache = store })

	passphrase, err := secret.NewFromBytes([]byte("hunter2 hunter2"))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer passphrase.Close()
	result, err := client.CreatePrivateDrive(context.Background(), CreateDriveParams{Name: "vault"}, passphrase)
	if err != nil {
		t.Fatalf("CreatePrivateDrive: %v", err)
	}
	driveKey := result.Created[1].Key
	defer driveKey.Close()
	rootID := result.Created[0].EntityID

	listing, err := client.ListFolder(context.Background(), rootID, driveKey)
	if err != nil {
		t.Fatalf("ListFolder: %v", err)
	}
	if len(listing) != 1 || listing[0].Path != "/" {
		t.Fatalf("listing = %+v, want just the root row", listing)
	}

	// Decrypted rows must not land on disk.
	var cached []ListedEntity
	hit, err := store.Get("folder-listing/"+rootID.String(), &cached)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("private listing was written to the cache")
	}
}
