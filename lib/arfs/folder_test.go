// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

func TestParseFolder(t *testing.T) {
	folderID := testEntityID(1)
	driveID := testEntityID(2)
	parentID := testEntityID(3)
	recordID := testTxID(4)

	node := ledger.Node{ID: recordID, Tags: []ledger.Tag{
		{Name: TagFolderID, Value: folderID.String()},
		{Name: TagDriveID, Value: driveID.String()},
		{Name: TagParentFolderID, Value: parentID.String()},
		{Name: TagUnixTime, Value: "1700000001"},
	}}

	folder, err := ParseFolder(node, []byte(`{"name":"vacation"}`))
	if err != nil {
		t.Fatalf("ParseFolder: %v", err)
	}
	if folder.ID != folderID {
		t.Errorf("ID = %v, want %v", folder.ID, folderID)
	}
	if folder.DriveID != driveID {
		t.Errorf("DriveID = %v, want %v", folder.DriveID, driveID)
	}
	if folder.ParentFolderID != parentID {
		t.Errorf("ParentFolderID = %v, want %v", folder.ParentFolderID, parentID)
	}
	if folder.IsRoot {
		t.Error("IsRoot = true for a folder with a parent tag")
	}
	if folder.Name != "vacation" {
		t.Errorf("Name = %q, want %q", folder.Name, "vacation")
	}
	if folder.MetaTxID != recordID {
		t.Errorf("MetaTxID = %v, want %v", folder.MetaTxID, recordID)
	}
}

func TestParseFolderRootMarker(t *testing.T) {
	// The root folder record has no Parent-Folder-Id tag at all; that
	// absence is the root marker.
	node := ledger.Node{ID: testTxID(1), Tags: []ledger.Tag{
		{Name: TagFolderID, Value: testEntityID(1).String()},
		{Name: TagDriveID, Value: testEntityID(2).String()},
	}}

	folder, err := ParseFolder(node, []byte(`{"name":"root"}`))
	if err != nil {
		t.Fatalf("ParseFolder: %v", err)
	}
	if !folder.IsRoot {
		t.Error("IsRoot = false for a record without a parent tag")
	}
	if !folder.ParentFolderID.IsZero() {
		t.Errorf("ParentFolderID = %v, want zero", folder.ParentFolderID)
	}
}

func TestParseFolderRejectsMalformedRecords(t *testing.T) {
	goodTags := []ledger.Tag{
		{Name: TagFolderID, Value: testEntityID(1).String()},
		{Name: TagDriveID, Value: testEntityID(2).String()},
	}

	tests := []struct {
		name    string
		tags    []ledger.Tag
		payload string
	}{
		{name: "missing folder ID", tags: []ledger.Tag{{Name: TagDriveID, Value: testEntityID(2).String()}}, payload: `{"name":"f"}`},
		{name: "missing drive ID", tags: []ledger.Tag{{Name: TagFolderID, Value: testEntityID(1).String()}}, payload: `{"name":"f"}`},
		{name: "bad parent tag", tags: append([]ledger.Tag{{Name: TagParentFolderID, Value: "nope"}}, goodTags...), payload: `{"name":"f"}`},
		{name: "payload not JSON", tags: goodTags, payload: `not json`},
		{name: "payload missing name", tags: goodTags, payload: `{}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node := ledger.Node{ID: testTxID(1), Tags: test.tags}
			if _, err := ParseFolder(node, []byte(test.payload)); err == nil {
				t.Error("ParseFolder succeeded, want error")
			}
		})
	}
}
