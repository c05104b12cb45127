// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"crypto/sha512"
	"strconv"
)

// Element is one node of a deep-hash tree: either a blob of bytes or
// an ordered list of child elements. Construct with Blob and List.
type Element struct {
	isList bool
	blob   []byte
	list   []Element
}

// Blob wraps raw bytes as a deep-hash leaf.
func Blob(data []byte) Element {
	return Element{blob: data}
}

// List wraps an ordered sequence of elements as a deep-hash branch.
func List(items ...Element) Element {
	return Element{isList: true, list: items}
}

// DeepHash computes the SHA-384 deep hash of an element tree. The
// scheme commits to both structure and content: a blob hashes its
// length-tagged contents, and a list folds its children into an
// accumulator seeded with the length-tagged list marker. Two trees
// collide only if they are structurally identical.
//
// This is the digest that transaction and data-item signatures are
// computed over.
func DeepHash(element Element) [sha512.Size384]byte {
	if !element.isList {
		tag := append([]byte("blob"), []byte(strconv.Itoa(len(element.blob)))...)
		tagDigest := sha512.Sum384(tag)
		blobDigest := sha512.Sum384(element.blob)
		return sha512.Sum384(append(tagDigest[:], blobDigest[:]...))
	}

	tag := append([]byte("list"), []byte(strconv.Itoa(len(element.list)))...)
	accumulator := sha512.Sum384(tag)
	for _, item := range element.list {
		itemDigest := DeepHash(item)
		accumulator = sha512.Sum384(append(accumulator[:], itemDigest[:]...))
	}
	return accumulator
}
