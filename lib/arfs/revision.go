// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package arfs

import (
	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// LatestRevisions reduces a collection of entity records to the newest
// revision per entity. idTag names the identity tag to group by:
// TagDriveID for drives, TagFolderID for folders, TagFileID for files.
//
// The winner per entity is the record with the maximum Unix-Time tag;
// on a tie the record appearing earlier in nodes wins. The gateway
// returns newest-first pages, so input order is the correct tiebreak
// for simultaneous edits. Records without a parseable Unix-Time tag
// sort as zero. Records without the identity tag at all are dropped.
//
// Output preserves the first-appearance order of each entity.
func LatestRevisions(nodes []ledger.Node, idTag string) []ledger.Node {
	winners := make([]ledger.Node, 0, len(nodes))
	index := make(map[string]int)

	for _, node := range nodes {
		id, ok := node.Tag(idTag)
		if !ok {
			continue
		}
		at, seen := index[id]
		if !seen {
			index[id] = len(winners)
			winners = append(winners, node)
			continue
		}
		if unixTimeTag(node) > unixTimeTag(winners[at]) {
			winners[at] = node
		}
	}
	return winners
}
