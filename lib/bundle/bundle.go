// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package bundle packs signed data items into the binary payload of a
// single outer transaction. Bundling lets one mining fee cover many
// entity records: drive creation writes its drive and root-folder items
// in one transaction, and uploads can carry file data and metadata the
// same way.
//
// The payload layout is a count header, a table of (size, item ID)
// entries, and the item binaries back to back. All counts and sizes are
// 32-byte little-endian numbers of which only the low eight bytes may
// be significant. Each item binary carries the signature type, raw
// signature and owner modulus, optional target and anchor, a
// varint-framed tag block, and the item data.
//
// The outer transaction advertises its payload with the Bundle-Format
// and Bundle-Version tag pair; Tags returns them ready to attach.
package bundle

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// Outer transaction tags identifying a bundle payload.
const (
	TagFormat  = "Bundle-Format"
	TagVersion = "Bundle-Version"

	Format  = "binary"
	Version = "2.0.0"
)

// Tags returns the tag pair the outer transaction must carry so
// indexers recognize and unpack the payload.
func Tags() []ledger.Tag {
	return []ledger.Tag{
		{Name: TagFormat, Value: Format},
		{Name: TagVersion, Value: Version},
	}
}

const (
	// numberSize is the width of bundle counts and sizes. The format
	// reserves 32 little-endian bytes per number; values above 64 bits
	// are rejected on read.
	numberSize = 32

	// entrySize is one header table entry: a numberSize item length
	// followed by the raw 32-byte item ID.
	entrySize = numberSize + sha256.Size

	// signatureTypeRSA4096 identifies RSA-PSS over SHA-256 with a
	// 4096-bit modulus, the only signature scheme this client
	// produces.
	signatureTypeRSA4096 = 1

	// SignatureSize is the raw signature width for RSA-4096.
	SignatureSize = 512

	// OwnerSize is the raw public modulus width for RSA-4096.
	OwnerSize = 512

	// anchorSize is the fixed anchor width when an anchor is present.
	anchorSize = 32
)

// Pack serializes finalized data items into one bundle payload. Every
// item must already be signed; an unsigned item is an error, not a
// silent omission.
func Pack(items []*ledger.DataItem) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("bundle: no items to pack")
	}

	encoded := make([][]byte, len(items))
	total := numberSize + len(items)*entrySize
	for i, item := range items {
		data, err := encodeItem(item)
		if err != nil {
			return nil, fmt.Errorf("bundle: item %d: %w", i, err)
		}
		encoded[i] = data
		total += len(data)
	}

	payload := make([]byte, 0, total)
	payload = appendNumber(payload, uint64(len(items)))
	for i, item := range items {
		payload = appendNumber(payload, uint64(len(encoded[i])))
		rawID, err := base64.RawURLEncoding.DecodeString(item.ID().String())
		if err != nil {
			return nil, fmt.Errorf("bundle: item %d: decoding ID: %w", i, err)
		}
		payload = append(payload, rawID...)
	}
	for _, data := range encoded {
		payload = append(payload, data...)
	}
	return payload, nil
}

// Unpack parses a bundle payload back into its data items. The header
// table is cross-checked against the item binaries: a size or ID that
// does not match what the item bytes actually contain is an error.
// Returned items do not alias the payload buffer.
func Unpack(payload []byte) ([]*ledger.DataItem, error) {
	if len(payload) < numberSize {
		return nil, fmt.Errorf("bundle: payload of %d bytes is shorter than the count header", len(payload))
	}
	count, err := parseNumber(payload[:numberSize])
	if err != nil {
		return nil, fmt.Errorf("bundle: item count: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("bundle: zero items")
	}

	// Every item needs a header entry, so the payload length bounds
	// the plausible count before any multiplication can overflow.
	if count > uint64(len(payload))/entrySize {
		return nil, fmt.Errorf("bundle: header table for %d items does not fit a %d-byte payload",
			count, len(payload))
	}
	tableEnd := uint64(numberSize) + count*entrySize
	if tableEnd > uint64(len(payload)) {
		return nil, fmt.Errorf("bundle: header table for %d items needs %d bytes, payload has %d",
			count, tableEnd, len(payload))
	}

	items := make([]*ledger.DataItem, 0, count)
	offset := tableEnd
	for i := uint64(0); i < count; i++ {
		entry := payload[numberSize+i*entrySize : numberSize+(i+1)*entrySize]
		size, err := parseNumber(entry[:numberSize])
		if err != nil {
			return nil, fmt.Errorf("bundle: item %d size: %w", i, err)
		}
		wantID := ledger.TxIDFromDigest([sha256.Size]byte(entry[numberSize:]))

		if size > uint64(len(payload))-offset {
			return nil, fmt.Errorf("bundle: item %d claims %d bytes, only %d remain",
				i, size, uint64(len(payload))-offset)
		}
		item, err := decodeItem(payload[offset : offset+size])
		if err != nil {
			return nil, fmt.Errorf("bundle: item %d: %w", i, err)
		}
		if item.ID() != wantID {
			return nil, fmt.Errorf("bundle: item %d: header names ID %s but signature hashes to %s",
				i, wantID, item.ID())
		}
		items = append(items, item)
		offset += size
	}
	if offset != uint64(len(payload)) {
		return nil, fmt.Errorf("bundle: %d trailing bytes after the last item", uint64(len(payload))-offset)
	}
	return items, nil
}

// encodeItem serializes one finalized item.
func encodeItem(item *ledger.DataItem) ([]byte, error) {
	if len(item.Signature) == 0 {
		return nil, fmt.Errorf("item is not finalized")
	}
	if len(item.Signature) != SignatureSize {
		return nil, fmt.Errorf("signature is %d bytes, want %d", len(item.Signature), SignatureSize)
	}
	owner, err := base64.RawURLEncoding.DecodeString(item.Owner)
	if err != nil {
		return nil, fmt.Errorf("decoding owner: %w", err)
	}
	if len(owner) != OwnerSize {
		return nil, fmt.Errorf("owner is %d bytes, want %d", len(owner), OwnerSize)
	}

	var target []byte
	if !item.Target.IsZero() {
		target, err = base64.RawURLEncoding.DecodeString(item.Target.String())
		if err != nil {
			return nil, fmt.Errorf("decoding target: %w", err)
		}
	}
	anchor := []byte(item.Anchor)
	if len(anchor) != 0 && len(anchor) != anchorSize {
		return nil, fmt.Errorf("anchor is %d bytes, want %d or empty", len(anchor), anchorSize)
	}

	tagBlock := encodeTags(item.Tags)

	size := 2 + SignatureSize + OwnerSize +
		1 + len(target) + 1 + len(anchor) +
		8 + 8 + len(tagBlock) + len(item.Data)
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint16(out, signatureTypeRSA4096)
	out = append(out, item.Signature...)
	out = append(out, owner...)
	out = appendOptional(out, target)
	out = appendOptional(out, anchor)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(item.Tags)))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(tagBlock)))
	out = append(out, tagBlock...)
	out = append(out, item.Data...)
	return out, nil
}

// decodeItem parses one item binary. The slice must contain exactly
// one item; leftover bytes are the caller's framing error, not ours,
// because data extends to the end of the slice.
func decodeItem(data []byte) (*ledger.DataItem, error) {
	reader := itemReader{data: data}

	signatureType, err := reader.uint16()
	if err != nil {
		return nil, fmt.Errorf("signature type: %w", err)
	}
	if signatureType != signatureTypeRSA4096 {
		return nil, fmt.Errorf("unsupported signature type %d", signatureType)
	}
	signature, err := reader.take(SignatureSize)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	owner, err := reader.take(OwnerSize)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	targetRaw, err := reader.optional(sha256.Size)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	anchorRaw, err := reader.optional(anchorSize)
	if err != nil {
		return nil, fmt.Errorf("anchor: %w", err)
	}
	tagCount, err := reader.uint64()
	if err != nil {
		return nil, fmt.Errorf("tag count: %w", err)
	}
	tagSize, err := reader.uint64()
	if err != nil {
		return nil, fmt.Errorf("tag block size: %w", err)
	}
	if tagSize > uint64(len(reader.data)-reader.offset) {
		return nil, fmt.Errorf("tag block claims %d bytes, only %d remain",
			tagSize, len(reader.data)-reader.offset)
	}
	tagBlock, err := reader.take(int(tagSize))
	if err != nil {
		return nil, fmt.Errorf("tag block: %w", err)
	}
	tags, err := decodeTags(tagBlock, tagCount)
	if err != nil {
		return nil, fmt.Errorf("tag block: %w", err)
	}

	item := &ledger.DataItem{
		Owner:  base64.RawURLEncoding.EncodeToString(owner),
		Anchor: string(anchorRaw),
		Tags:   tags,
		Data:   append([]byte(nil), reader.rest()...),
	}
	if len(targetRaw) > 0 {
		item.Target, err = ledger.ParseAddress(base64.RawURLEncoding.EncodeToString(targetRaw))
		if err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
	}
	if err := item.Finalize(signature); err != nil {
		return nil, err
	}
	return item, nil
}

// itemReader is a bounds-checked cursor over an item binary.
type itemReader struct {
	data   []byte
	offset int
}

func (r *itemReader) take(n int) ([]byte, error) {
	if n > len(r.data)-r.offset {
		return nil, fmt.Errorf("need %d bytes, %d remain", n, len(r.data)-r.offset)
	}
	out := r.data[r.offset : r.offset+n]
	r.offset += n
	return out, nil
}

func (r *itemReader) uint16() (uint16, error) {
	raw, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(raw), nil
}

func (r *itemReader) uint64() (uint64, error) {
	raw, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}

// optional reads a presence byte and, when set, n payload bytes.
func (r *itemReader) optional(n int) ([]byte, error) {
	flag, err := r.take(1)
	if err != nil {
		return nil, err
	}
	switch flag[0] {
	case 0:
		return nil, nil
	case 1:
		return r.take(n)
	default:
		return nil, fmt.Errorf("presence byte is %d, want 0 or 1", flag[0])
	}
}

func (r *itemReader) rest() []byte {
	return r.data[r.offset:]
}

// appendOptional writes a presence byte and the value when non-empty.
func appendOptional(dst, value []byte) []byte {
	if len(value) == 0 {
		return append(dst, 0)
	}
	dst = append(dst, 1)
	return append(dst, value...)
}

// appendNumber writes n as a numberSize little-endian field.
func appendNumber(dst []byte, n uint64) []byte {
	var buf [numberSize]byte
	binary.LittleEndian.PutUint64(buf[:8], n)
	return append(dst, buf[:]...)
}

// parseNumber reads a numberSize little-endian field. The high 24
// bytes must be zero: a count or size beyond 64 bits is malformed.
func parseNumber(src []byte) (uint64, error) {
	for _, b := range src[8:] {
		if b != 0 {
			return 0, fmt.Errorf("number exceeds 64 bits")
		}
	}
	return binary.LittleEndian.Uint64(src[:8]), nil
}

// --- Tag block ---
//
// Tags travel as an array of (name, value) string records: a zigzag
// varint block count, the records with varint-length-prefixed strings,
// and a zero terminator. Zero tags encode as an empty block. Readers
// accept multiple blocks and the negative size-prefixed block form;
// this writer always emits a single positive block.

// encodeTags serializes a tag list into a tag block.
func encodeTags(tags []ledger.Tag) []byte {
	if len(tags) == 0 {
		return nil
	}
	out := appendZigZag(nil, int64(len(tags)))
	for _, tag := range tags {
		out = appendZigZag(out, int64(len(tag.Name)))
		out = append(out, tag.Name...)
		out = appendZigZag(out, int64(len(tag.Value)))
		out = append(out, tag.Value...)
	}
	return append(out, 0)
}

// decodeTags parses a tag block and checks the result against the
// item header's declared tag count.
func decodeTags(data []byte, count uint64) ([]ledger.Tag, error) {
	if len(data) == 0 {
		if count != 0 {
			return nil, fmt.Errorf("empty block but header declares %d tags", count)
		}
		return nil, nil
	}

	var tags []ledger.Tag
	offset := 0
	for {
		blockCount, n, err := readZigZag(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("block count: %w", err)
		}
		offset += n
		if blockCount == 0 {
			break
		}
		if blockCount < 0 {
			// Negative block counts carry a byte-size hint we do
			// not need for in-memory parsing.
			blockCount = -blockCount
			if _, n, err = readZigZag(data[offset:]); err != nil {
				return nil, fmt.Errorf("block size: %w", err)
			}
			offset += n
		}
		for i := int64(0); i < blockCount; i++ {
			name, n, err := readString(data[offset:])
			if err != nil {
				return nil, fmt.Errorf("tag name: %w", err)
			}
			offset += n
			value, n, err := readString(data[offset:])
			if err != nil {
				return nil, fmt.Errorf("tag value: %w", err)
			}
			offset += n
			tags = append(tags, ledger.Tag{Name: name, Value: value})
		}
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%d trailing bytes", len(data)-offset)
	}
	if uint64(len(tags)) != count {
		return nil, fmt.Errorf("block holds %d tags but header declares %d", len(tags), count)
	}
	return tags, nil
}

// readString reads a varint-length-prefixed string.
func readString(data []byte) (string, int, error) {
	length, n, err := readZigZag(data)
	if err != nil {
		return "", 0, err
	}
	if length < 0 {
		return "", 0, fmt.Errorf("negative length %d", length)
	}
	if length > int64(len(data)-n) {
		return "", 0, fmt.Errorf("length %d exceeds %d remaining bytes", length, len(data)-n)
	}
	return string(data[n : n+int(length)]), n + int(length), nil
}

// appendZigZag writes n as a zigzag-encoded varint.
func appendZigZag(dst []byte, n int64) []byte {
	return binary.AppendUvarint(dst, uint64((n<<1)^(n>>63)))
}

// readZigZag reads a zigzag-encoded varint, returning the value and
// the number of bytes consumed.
func readZigZag(data []byte) (int64, int, error) {
	raw, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, 0, fmt.Errorf("truncated varint")
	}
	return int64(raw>>1) ^ -int64(raw&1), n, nil
}
