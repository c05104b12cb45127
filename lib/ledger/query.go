// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import "context"

// DefaultPageSize is the number of edges requested per query page when
// TagQuery.PageSize is zero.
const DefaultPageSize = 100

// TagFilter matches transactions whose tag with the given name has any
// of the given values. A filter with multiple values is a disjunction;
// multiple filters in a query are a conjunction.
type TagFilter struct {
	Name   string
	Values []string
}

// TagQuery describes one page of a tag-predicate search against the
// ledger index.
type TagQuery struct {
	// Tags are ANDed together; each filter's values are ORed.
	Tags []TagFilter

	// Owner restricts results to transactions signed by this wallet.
	// Zero value means no owner restriction.
	Owner Address

	// Cursor resumes a paged query after the edge that produced it.
	// Empty for the first page.
	Cursor string

	// PageSize is the number of edges to request. Zero means
	// DefaultPageSize.
	PageSize int
}

// Node is the indexed view of one transaction: its identifier, its
// tags, and the block that accepted it. Nodes for transactions still
// waiting in the mempool have a zero Block.
type Node struct {
	ID    TxID      `json:"id"`
	Tags  []Tag     `json:"tags"`
	Block BlockInfo `json:"block"`
}

// Tag returns the value of the node's first tag with the given name.
func (n Node) Tag(name string) (string, bool) {
	return FindTag(n.Tags, name)
}

// BlockInfo identifies the block that accepted a transaction.
type BlockInfo struct {
	Height    int64  `json:"height"`
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// Edge is one result in a query page, carrying the opaque cursor that
// resumes the query immediately after it.
type Edge struct {
	Cursor string `json:"cursor"`
	Node   Node   `json:"node"`
}

// PageInfo reports whether more results exist beyond this page.
// Pagination loops must terminate on HasNextPage, never on a
// shorter-than-requested page: the index may return short pages
// mid-stream.
type PageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

// QueryPage is one page of query results, newest transactions first.
type QueryPage struct {
	Edges    []Edge   `json:"edges"`
	PageInfo PageInfo `json:"pageInfo"`
}

// Queryer executes tag queries and fetches transaction payloads. It is
// the read side of the ledger; gateway.Client is the production
// implementation, and tests substitute fakes.
type Queryer interface {
	// Query executes one page of a tag-predicate search.
	Query(ctx context.Context, query TagQuery) (*QueryPage, error)

	// TxData fetches the full data payload of a transaction. For
	// encrypted entities this returns the ciphertext exactly as
	// written.
	TxData(ctx context.Context, id TxID) ([]byte, error)
}
