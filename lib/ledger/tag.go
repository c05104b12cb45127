// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

// Tag is a name/value pair attached to a transaction. Tags are the
// only indexed dimension of the ledger: queries match on them, and
// client-side protocols are built entirely out of tag vocabularies.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FindTag returns the value of the first tag with the given name, and
// whether it was present. Duplicate names are legal on the wire; the
// first occurrence wins.
func FindTag(tags []Tag, name string) (string, bool) {
	for _, tag := range tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}
