// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// testTxID returns a deterministic valid transaction ID.
func testTxID(seed byte) ledger.TxID {
	var digest [32]byte
	for i := range digest {
		digest[i] = seed
	}
	return ledger.TxIDFromDigest(digest)
}

// testEntityID returns a deterministic valid entity ID.
func testEntityID(n int) EntityID {
	return MustParseEntityID(fmt.Sprintf("00000000-0000-4000-8000-%012x", n))
}

// testKey returns a 32-byte key buffer filled with the given byte,
// closed automatically at test end.
func testKey(t *testing.T, fill byte) *secret.Buffer {
	t.Helper()
	key, err := secret.NewFromBytes(bytes.Repeat([]byte{fill}, KeySize))
	if err != nil {
		t.Fatalf("creating key buffer: %v", err)
	}
	t.Cleanup(func() { key.Close() })
	return key
}

func TestParseEntityID(t *testing.T) {
	valid := NewEntityID().String()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid", raw: valid},
		{name: "empty", raw: "", wantErr: true},
		{name: "too short", raw: "1234", wantErr: true},
		{name: "braced form", raw: "{" + valid[:34] + "}", wantErr: true},
		{name: "urn form", raw: "urn:uuid:" + valid, wantErr: true},
		{name: "bad characters", raw: "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			id, err := ParseEntityID(test.raw)
			if test.wantErr {
				if err == nil {
					t.Fatalf("ParseEntityID(%q) succeeded, want error", test.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntityID(%q): %v", test.raw, err)
			}
			if id.String() != test.raw {
				t.Errorf("String() = %q, want %q", id.String(), test.raw)
			}
			if id.IsZero() {
				t.Error("IsZero() = true for parsed ID")
			}
		})
	}
}

func TestNewEntityIDIsUniqueAndParseable(t *testing.T) {
	a := NewEntityID()
	b := NewEntityID()
	if a == b {
		t.Fatal("two generated entity IDs are equal")
	}
	parsed, err := ParseEntityID(a.String())
	if err != nil {
		t.Fatalf("ParseEntityID of generated ID: %v", err)
	}
	if parsed != a {
		t.Errorf("roundtrip mismatch: got %v, want %v", parsed, a)
	}
}

func TestEntityIDZeroValue(t *testing.T) {
	var id EntityID
	if !id.IsZero() {
		t.Error("zero EntityID should report IsZero")
	}
	if id.String() != "" {
		t.Errorf("zero EntityID String() = %q, want empty", id.String())
	}
}

func TestEntityIDTextRoundtrip(t *testing.T) {
	original := NewEntityID()

	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded EntityID
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %v, want %v", decoded, original)
	}
}

func TestEntityIDUnmarshalRejectsInvalid(t *testing.T) {
	var id EntityID
	if err := json.Unmarshal([]byte(`"junk"`), &id); err == nil {
		t.Error("Unmarshal should reject an invalid entity ID")
	}
}

func TestEntityIDAsMapKey(t *testing.T) {
	a := testEntityID(1)
	b := testEntityID(2)
	byID := map[EntityID]string{a: "a", b: "b"}
	if byID[a] != "a" || byID[b] != "b" {
		t.Errorf("map lookup mismatch: %v", byID)
	}
}

func TestUnixTimeTag(t *testing.T) {
	tests := []struct {
		name string
		tags []ledger.Tag
		want int64
	}{
		{name: "present", tags: []ledger.Tag{{Name: TagUnixTime, Value: "1700000000"}}, want: 1700000000},
		{name: "missing", tags: nil, want: 0},
		{name: "malformed", tags: []ledger.Tag{{Name: TagUnixTime, Value: "soon"}}, want: 0},
		{name: "negative", tags: []ledger.Tag{{Name: TagUnixTime, Value: "-5"}}, want: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node := ledger.Node{ID: testTxID(1), Tags: test.tags}
			if got := unixTimeTag(node); got != test.want {
				t.Errorf("unixTimeTag = %d, want %d", got, test.want)
			}
		})
	}
}
