// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

const testQueryPage = `{
	"data": {
		"transactions": {
			"pageInfo": {"hasNextPage": true},
			"edges": [
				{
					"cursor": "WyIyMDI2LTAxLTAxIl0",
					"node": {
						"id": "O6_D8iBpCbVMPZJaDOmk7sz3zaKEbGZDpWA2AOgzWeo",
						"tags": [
							{"name": "Entity-Type", "value": "drive"},
							{"name": "Drive-Id", "value": "b834b979-5fa9-451d-ae04-3647d1b00e01"}
						],
						"block": {"height": 1207040, "id": "blockid", "timestamp": 1767225600}
					}
				}
			]
		}
	}
}`

func TestQueryWireShape(t *testing.T) {
	owner := ledger.MustParseAddress(base64.RawURLEncoding.EncodeToString(bytes.Repeat([]byte{0x33}, 32)))

	var request graphqlRequest
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
			t.Errorf("request = %s %s, want POST /graphql", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		io.WriteString(w, testQueryPage)
	}))

	page, err := client.Query(context.Background(), ledger.TagQuery{
		Tags: []ledger.TagFilter{
			{Name: "Entity-Type", Values: []string{"drive"}},
		},
		Owner:    owner,
		Cursor:   "prevcursor",
		PageSize: 25,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if !strings.Contains(request.Query, "transactions(") {
		t.Errorf("query document missing transactions selection:\n%s", request.Query)
	}
	if got := request.Variables["first"]; got != float64(25) {
		t.Errorf("first = %v, want 25", got)
	}
	if got := request.Variables["after"]; got != "prevcursor" {
		t.Errorf("after = %v, want prevcursor", got)
	}
	owners, ok := request.Variables["owners"].([]any)
	if !ok || len(owners) != 1 || owners[0] != owner.String() {
		t.Errorf("owners = %v, want [%s]", request.Variables["owners"], owner)
	}
	tags, ok := request.Variables["tags"].([]any)
	if !ok || len(tags) != 1 {
		t.Fatalf("tags = %v, want one filter", request.Variables["tags"])
	}

	if !page.PageInfo.HasNextPage {
		t.Error("HasNextPage = false, want true")
	}
	if len(page.Edges) != 1 {
		t.Fatalf("page has %d edges, want 1", len(page.Edges))
	}
	edge := page.Edges[0]
	if edge.Cursor != "WyIyMDI2LTAxLTAxIl0" {
		t.Errorf("cursor = %s", edge.Cursor)
	}
	if edge.Node.ID.String() != "O6_D8iBpCbVMPZJaDOmk7sz3zaKEbGZDpWA2AOgzWeo" {
		t.Errorf("node id = %s", edge.Node.ID)
	}
	if got, ok := ledger.FindTag(edge.Node.Tags, "Drive-Id"); !ok || got != "b834b979-5fa9-451d-ae04-3647d1b00e01" {
		t.Errorf("Drive-Id tag = %q, %v", got, ok)
	}
	if edge.Node.Block.Height != 1207040 {
		t.Errorf("block height = %d, want 1207040", edge.Node.Block.Height)
	}
}

func TestQueryOmitsUnsetVariables(t *testing.T) {
	var request graphqlRequest
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		io.WriteString(w, `{"data":{"transactions":{"pageInfo":{"hasNextPage":false},"edges":[]}}}`)
	}))

	page, err := client.Query(context.Background(), ledger.TagQuery{
		Tags: []ledger.TagFilter{{Name: "App-Name", Values: []string{"ArDrive-CLI"}}},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if _, present := request.Variables["owners"]; present {
		t.Error("owners variable sent without an owner filter")
	}
	if _, present := request.Variables["after"]; present {
		t.Error("after variable sent without a cursor")
	}
	if got := request.Variables["first"]; got != float64(ledger.DefaultPageSize) {
		t.Errorf("first = %v, want default %d", got, ledger.DefaultPageSize)
	}
	if page.PageInfo.HasNextPage {
		t.Error("HasNextPage = true for the terminal page")
	}
}

func TestQuerySurfacesGraphQLErrors(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"errors":[{"message":"tag filter too broad"}]}`)
	}))

	_, err := client.Query(context.Background(), ledger.TagQuery{
		Tags: []ledger.TagFilter{{Name: "App-Name", Values: []string{"ArDrive-CLI"}}},
	})
	if err == nil {
		t.Fatal("Query succeeded despite a GraphQL error")
	}
	if !strings.Contains(err.Error(), "tag filter too broad") {
		t.Errorf("error %q does not carry the GraphQL message", err)
	}
}
