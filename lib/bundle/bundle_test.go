// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"bytes"
	"encoding/base64"
	"reflect"
	"strings"
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// testOwner is a fabricated RSA-4096 public modulus. The framing layer
// only checks widths, so tests never need a real keypair.
func testOwner(fill byte) string {
	return base64.RawURLEncoding.EncodeToString(bytes.Repeat([]byte{fill}, OwnerSize))
}

func testAddress(fill byte) ledger.Address {
	raw := base64.RawURLEncoding.EncodeToString(bytes.Repeat([]byte{fill}, 32))
	return ledger.MustParseAddress(raw)
}

// signedItem builds a finalized item with a fabricated signature.
func signedItem(t *testing.T, item *ledger.DataItem, signatureFill byte) *ledger.DataItem {
	t.Helper()
	if err := item.Finalize(bytes.Repeat([]byte{signatureFill}, SignatureSize)); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return item
}

func TestPackUnpackRoundTrip(t *testing.T) {
	full := signedItem(t, &ledger.DataItem{
		Owner:  testOwner(0x11),
		Target: testAddress(0x22),
		Anchor: strings.Repeat("a", 32),
		Tags: []ledger.Tag{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Unicode-Näme", Value: "välue ☃"},
			{Name: "Empty", Value: ""},
		},
		Data: []byte(`{"name":"report.pdf"}`),
	}, 0x51)
	minimal := signedItem(t, &ledger.DataItem{
		Owner: testOwner(0x11),
		Data:  []byte{0x00, 0xFF, 0x10},
	}, 0x52)

	payload, err := Pack([]*ledger.DataItem{full, minimal})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	items, err := Unpack(payload)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unpacked %d items, want 2", len(items))
	}

	for i, want := range []*ledger.DataItem{full, minimal} {
		got := items[i]
		if got.ID() != want.ID() {
			t.Errorf("item %d: ID = %s, want %s", i, got.ID(), want.ID())
		}
		if got.Owner != want.Owner {
			t.Errorf("item %d: owner mismatch", i)
		}
		if got.Target != want.Target {
			t.Errorf("item %d: target = %q, want %q", i, got.Target, want.Target)
		}
		if got.Anchor != want.Anchor {
			t.Errorf("item %d: anchor = %q, want %q", i, got.Anchor, want.Anchor)
		}
		if !reflect.DeepEqual(got.Tags, want.Tags) {
			t.Errorf("item %d: tags = %v, want %v", i, got.Tags, want.Tags)
		}
		if !bytes.Equal(got.Data, want.Data) {
			t.Errorf("item %d: data = %x, want %x", i, got.Data, want.Data)
		}
		if !bytes.Equal(got.Signature, want.Signature) {
			t.Errorf("item %d: signature mismatch", i)
		}
	}
}

func TestItemBinaryLayout(t *testing.T) {
	item := signedItem(t, &ledger.DataItem{
		Owner: testOwner(0xAB),
		Data:  []byte("payload"),
	}, 0x51)

	encoded, err := encodeItem(item)
	if err != nil {
		t.Fatalf("encodeItem: %v", err)
	}

	if encoded[0] != 1 || encoded[1] != 0 {
		t.Errorf("signature type bytes = %x %x, want 01 00", encoded[0], encoded[1])
	}
	if !bytes.Equal(encoded[2:2+SignatureSize], item.Signature) {
		t.Error("signature bytes not at offset 2")
	}
	ownerStart := 2 + SignatureSize
	if encoded[ownerStart] != 0xAB {
		t.Errorf("owner does not start at offset %d", ownerStart)
	}
	flagStart := ownerStart + OwnerSize
	if encoded[flagStart] != 0 {
		t.Errorf("target presence byte = %d, want 0", encoded[flagStart])
	}
	if encoded[flagStart+1] != 0 {
		t.Errorf("anchor presence byte = %d, want 0", encoded[flagStart+1])
	}
	// Zero tags: count 0, block size 0, then the data.
	tail := encoded[flagStart+2:]
	if !bytes.Equal(tail[:16], make([]byte, 16)) {
		t.Errorf("tag header = %x, want zeros", tail[:16])
	}
	if !bytes.Equal(tail[16:], []byte("payload")) {
		t.Errorf("data = %q, want %q", tail[16:], "payload")
	}
}

func TestPackValidation(t *testing.T) {
	tests := []struct {
		name string
		item *ledger.DataItem
		sign []byte
	}{
		{
			name: "unsigned item",
			item: &ledger.DataItem{Owner: testOwner(0x01)},
		},
		{
			name: "short signature",
			item: &ledger.DataItem{Owner: testOwner(0x01)},
			sign: bytes.Repeat([]byte{0x51}, 64),
		},
		{
			name: "owner not base64url",
			item: &ledger.DataItem{Owner: "not base64!"},
			sign: bytes.Repeat([]byte{0x51}, SignatureSize),
		},
		{
			name: "owner wrong width",
			item: &ledger.DataItem{Owner: base64.RawURLEncoding.EncodeToString([]byte("narrow"))},
			sign: bytes.Repeat([]byte{0x51}, SignatureSize),
		},
		{
			name: "anchor wrong width",
			item: &ledger.DataItem{Owner: testOwner(0x01), Anchor: "short"},
			sign: bytes.Repeat([]byte{0x51}, SignatureSize),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if len(test.sign) > 0 {
				if err := test.item.Finalize(test.sign); err != nil {
					t.Fatalf("Finalize: %v", err)
				}
			}
			if _, err := Pack([]*ledger.DataItem{test.item}); err == nil {
				t.Error("Pack accepted a malformed item")
			}
		})
	}

	if _, err := Pack(nil); err == nil {
		t.Error("Pack accepted an empty item list")
	}
}

func TestUnpackRejectsCorruption(t *testing.T) {
	item := signedItem(t, &ledger.DataItem{
		Owner: testOwner(0x11),
		Tags:  []ledger.Tag{{Name: "Entity-Type", Value: "drive"}},
		Data:  []byte("data"),
	}, 0x51)
	payload, err := Pack([]*ledger.DataItem{item})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	corrupt := func(mutate func([]byte) []byte) []byte {
		clone := append([]byte(nil), payload...)
		return mutate(clone)
	}

	tests := []struct {
		name    string
		payload []byte
	}{
		{"truncated count header", payload[:16]},
		{"zero items", corrupt(func(p []byte) []byte {
			p[0] = 0
			return p
		})},
		{"count beyond payload", corrupt(func(p []byte) []byte {
			p[0] = 0xFF
			return p
		})},
		{"count beyond 64 bits", corrupt(func(p []byte) []byte {
			p[20] = 1
			return p
		})},
		{"truncated item", payload[:len(payload)-1]},
		{"trailing bytes", append(append([]byte(nil), payload...), 0x00)},
		{"header ID mismatch", corrupt(func(p []byte) []byte {
			p[numberSize+numberSize] ^= 0xFF
			return p
		})},
		{"bad presence byte", corrupt(func(p []byte) []byte {
			// Target presence byte of the first item.
			p[numberSize+entrySize+2+SignatureSize+OwnerSize] = 7
			return p
		})},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Unpack(test.payload); err == nil {
				t.Error("Unpack accepted a corrupt payload")
			}
		})
	}

	if _, err := Unpack(payload); err != nil {
		t.Fatalf("Unpack rejected the pristine payload: %v", err)
	}
}

func TestUnpackRejectsTagCountMismatch(t *testing.T) {
	item := signedItem(t, &ledger.DataItem{
		Owner: testOwner(0x11),
		Tags:  []ledger.Tag{{Name: "A", Value: "1"}},
		Data:  []byte("data"),
	}, 0x51)
	payload, err := Pack([]*ledger.DataItem{item})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	// Tag count field of the first item: after the header table,
	// signature type, signature, owner, and two absent-field flags.
	offset := numberSize + entrySize + 2 + SignatureSize + OwnerSize + 2
	payload[offset]++
	if _, err := Unpack(payload); err == nil {
		t.Error("Unpack accepted a tag count that contradicts the block")
	} else if !strings.Contains(err.Error(), "declares") {
		t.Errorf("error = %v, want a declared-count mismatch", err)
	}
}

func TestTagsPair(t *testing.T) {
	tags := Tags()
	want := []ledger.Tag{
		{Name: "Bundle-Format", Value: "binary"},
		{Name: "Bundle-Version", Value: "2.0.0"},
	}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("Tags() = %v, want %v", tags, want)
	}
}

func TestTagBlockRoundTripLongValues(t *testing.T) {
	// A value longer than 127 bytes forces a multi-byte varint length.
	long := strings.Repeat("x", 300)
	tags := []ledger.Tag{{Name: "Long", Value: long}, {Name: "Short", Value: "y"}}

	block := encodeTags(tags)
	decoded, err := decodeTags(block, uint64(len(tags)))
	if err != nil {
		t.Fatalf("decodeTags: %v", err)
	}
	if !reflect.DeepEqual(decoded, tags) {
		t.Errorf("decoded = %v, want %v", decoded, tags)
	}

	if _, err := decodeTags(block, 5); err == nil {
		t.Error("decodeTags accepted a wrong declared count")
	}
	if _, err := decodeTags(block[:len(block)-2], uint64(len(tags))); err == nil {
		t.Error("decodeTags accepted a truncated block")
	}
}
