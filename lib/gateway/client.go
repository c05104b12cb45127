// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway is the HTTP client for a ledger gateway node.
//
// One Client serves every remote concern of this repository: the tag
// query index (ledger.Queryer), the write side with its fee, balance,
// and anchor reads (ledger.Submitter), and evaluated contract state
// for the tip oracle. Response bodies are
// read through lib/netutil's bounded readers; non-2xx statuses become
// typed *StatusError values.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/netutil"
	"github.com/petershepherd/ardrive-cli/lib/pst"
)

// DefaultURL is the public gateway used when no other is configured.
const DefaultURL = "https://arweave.net"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// URL is the gateway base URL. If empty, DefaultURL is used.
	URL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client talks to one gateway node.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ ledger.Queryer     = (*Client)(nil)
	_ ledger.Submitter   = (*Client)(nil)
	_ pst.ContractReader = (*Client)(nil)
)

// NewClient creates a gateway client.
func NewClient(config ClientConfig) (*Client, error) {
	base := config.URL
	if base == "" {
		base = DefaultURL
	}
	// The string form with the trailing slash stripped is stored and
	// request URLs are built by concatenation, sidestepping the
	// re-encoding pitfalls of url.URL.String().
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("gateway: invalid URL %q: %w", base, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// TxData fetches the full data payload of a transaction. The endpoint
// serves the payload as unpadded base64url text; the decoded bytes are
// returned, ciphertext included for private entities.
func (c *Client) TxData(ctx context.Context, id ledger.TxID) ([]byte, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("gateway: zero transaction ID")
	}
	body, err := c.do(ctx, http.MethodGet, "/tx/"+id.String()+"/data", nil)
	if err != nil {
		return nil, err
	}
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("gateway: payload of %s is not base64url: %w", id, err)
	}
	return data, nil
}

// SubmitTransaction posts a signed transaction header. Payloads at or
// below ledger.MaxChunkSize ride along inline; larger payloads follow
// as chunks.
func (c *Client) SubmitTransaction(ctx context.Context, tx *ledger.Transaction) error {
	if tx.ID.IsZero() {
		return fmt.Errorf("gateway: transaction is not signed")
	}
	if _, err := c.do(ctx, http.MethodPost, "/tx", tx); err != nil {
		return err
	}
	c.logger.Debug("transaction submitted",
		"tx_id", tx.ID,
		"data_size", tx.DataSize,
		"reward", tx.Reward)
	return nil
}

// wireChunk is the JSON shape of a chunk post. Offsets travel as
// decimal strings like every other numeric wire field.
type wireChunk struct {
	TxID   string `json:"tx_id"`
	Offset string `json:"offset"`
	Chunk  string `json:"chunk"`
}

// PostChunk posts one data chunk of a previously submitted
// transaction.
func (c *Client) PostChunk(ctx context.Context, chunk *ledger.Chunk) error {
	wire := wireChunk{
		TxID:   chunk.TxID.String(),
		Offset: strconv.FormatInt(chunk.Offset, 10),
		Chunk:  base64.RawURLEncoding.EncodeToString(chunk.Data),
	}
	_, err := c.do(ctx, http.MethodPost, "/chunk", wire)
	return err
}

// Price returns the network fee for storing the given number of bytes.
func (c *Client) Price(ctx context.Context, size int64) (ledger.Winston, error) {
	if size < 0 {
		return ledger.Winston{}, fmt.Errorf("gateway: negative size %d", size)
	}
	body, err := c.do(ctx, http.MethodGet, "/price/"+strconv.FormatInt(size, 10), nil)
	if err != nil {
		return ledger.Winston{}, err
	}
	price, err := ledger.ParseWinston(strings.TrimSpace(string(body)))
	if err != nil {
		return ledger.Winston{}, fmt.Errorf("gateway: price response: %w", err)
	}
	return price, nil
}

// Balance returns the wallet's spendable balance.
func (c *Client) Balance(ctx context.Context, address ledger.Address) (ledger.Winston, error) {
	if address.IsZero() {
		return ledger.Winston{}, fmt.Errorf("gateway: zero address")
	}
	body, err := c.do(ctx, http.MethodGet, "/wallet/"+address.String()+"/balance", nil)
	if err != nil {
		return ledger.Winston{}, err
	}
	balance, err := ledger.ParseWinston(strings.TrimSpace(string(body)))
	if err != nil {
		return ledger.Winston{}, fmt.Errorf("gateway: balance response: %w", err)
	}
	return balance, nil
}

// TxAnchor returns a fresh anchor for transaction signing. Anchors
// scope a transaction to recent ledger state so stale submissions
// expire.
func (c *Client) TxAnchor(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/tx_anchor", nil)
	if err != nil {
		return "", err
	}
	anchor := strings.TrimSpace(string(body))
	if anchor == "" {
		return "", fmt.Errorf("gateway: empty anchor response")
	}
	return anchor, nil
}

// ContractState fetches the evaluated state of a smart contract as
// raw JSON.
func (c *Client) ContractState(ctx context.Context, contract ledger.TxID) ([]byte, error) {
	if contract.IsZero() {
		return nil, fmt.Errorf("gateway: zero contract ID")
	}
	return c.do(ctx, http.MethodGet, "/contract/"+contract.String(), nil)
}

// do performs one HTTP request and returns the response body. A
// non-nil requestBody is JSON-encoded. Non-2xx statuses return a
// *StatusError carrying the body.
func (c *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("gateway: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("gateway: creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: reading response of %s %s: %w", method, path, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: response.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
