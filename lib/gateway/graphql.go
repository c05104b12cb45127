// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// transactionsQuery is the GraphQL document behind every tag query.
// Tag filters are ANDed by the index; each filter's value list is
// ORed. Results come back newest first, which the revision filter
// relies on for its page-order tiebreak.
const transactionsQuery = `query($tags: [TagFilter!], $owners: [String!], $first: Int!, $after: String) {
  transactions(tags: $tags, owners: $owners, first: $first, after: $after, sort: HEIGHT_DESC) {
    pageInfo { hasNextPage }
    edges {
      cursor
      node {
        id
        tags { name value }
        block { height id timestamp }
      }
    }
  }
}`

// graphqlRequest is the POST body of a GraphQL call.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlTagFilter mirrors the index's TagFilter input type.
type graphqlTagFilter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// graphqlEnvelope is the GraphQL response wrapper. The transactions
// connection decodes straight into ledger.QueryPage.
type graphqlEnvelope struct {
	Data struct {
		Transactions ledger.QueryPage `json:"transactions"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query executes one page of a tag-predicate search against the
// gateway's GraphQL index.
func (c *Client) Query(ctx context.Context, query ledger.TagQuery) (*ledger.QueryPage, error) {
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = ledger.DefaultPageSize
	}

	filters := make([]graphqlTagFilter, len(query.Tags))
	for i, tag := range query.Tags {
		filters[i] = graphqlTagFilter{Name: tag.Name, Values: tag.Values}
	}
	variables := map[string]any{
		"tags":  filters,
		"first": pageSize,
	}
	if !query.Owner.IsZero() {
		variables["owners"] = []string{query.Owner.String()}
	}
	if query.Cursor != "" {
		variables["after"] = query.Cursor
	}

	body, err := c.do(ctx, http.MethodPost, "/graphql", graphqlRequest{
		Query:     transactionsQuery,
		Variables: variables,
	})
	if err != nil {
		return nil, err
	}

	var envelope graphqlEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("gateway: parsing query response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("gateway: query rejected: %s", envelope.Errors[0].Message)
	}
	return &envelope.Data.Transactions, nil
}
