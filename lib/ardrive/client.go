// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/bundle"
	"github.com/petershepherd/ardrive-cli/lib/cache"
	"github.com/petershepherd/ardrive-cli/lib/clock"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/pst"
	"github.com/petershepherd/ardrive-cli/lib/version"
	"github.com/petershepherd/ardrive-cli/lib/wallet"
)

// Config holds the collaborators of a Client. Queryer and Submitter
// are required; everything else has a sensible default or is an
// optional capability.
type Config struct {
	// Queryer executes tag queries and fetches metadata payloads.
	Queryer ledger.Queryer

	// Submitter estimates fees, reads balances and anchors, and
	// accepts transaction and chunk posts.
	Submitter ledger.Submitter

	// Wallet signs every transaction and data item. Nil builds a
	// read-only client; write operations then fail up front.
	Wallet wallet.Wallet

	// Oracle prices and addresses community tips. Nil disables
	// tipping entirely.
	Oracle *pst.Oracle

	// Cache, when set, serves repeated public list operations from
	// local snapshots instead of re-paging the index.
	Cache *cache.Store

	// Clock stamps entity records and paces upload retries. Defaults
	// to the real clock.
	Clock clock.Clock

	// Logger receives structured output. Defaults to slog.Default().
	Logger *slog.Logger

	// App names this application in the App-Name/App-Version tags of
	// every record it writes. Defaults to ArDrive-CLI at the build's
	// version.
	App arfs.AppIdentity

	// Rewards controls mining fees on submitted transactions.
	Rewards RewardSettings
}

// Client orchestrates entity reads and writes against the ledger. All
// operations take every identifier and key explicitly; a Client holds
// no ambient session state and is safe for concurrent use.
type Client struct {
	queryer   ledger.Queryer
	submitter ledger.Submitter
	wallet    wallet.Wallet
	oracle    *pst.Oracle
	cache     *cache.Store
	clock     clock.Clock
	logger    *slog.Logger
	app       arfs.AppIdentity
	rewards   RewardSettings
}

// NewClient validates the configuration and returns a Client.
func NewClient(config Config) (*Client, error) {
	if config.Queryer == nil {
		return nil, fmt.Errorf("ardrive: Queryer is required")
	}
	if config.Submitter == nil {
		return nil, fmt.Errorf("ardrive: Submitter is required")
	}

	client := &Client{
		queryer:   config.Queryer,
		submitter: config.Submitter,
		wallet:    config.Wallet,
		oracle:    config.Oracle,
		cache:     config.Cache,
		clock:     config.Clock,
		logger:    config.Logger,
		app:       config.App,
		rewards:   config.Rewards,
	}
	if client.clock == nil {
		client.clock = clock.Real()
	}
	if client.logger == nil {
		client.logger = slog.Default()
	}
	if client.app.Name == "" {
		client.app.Name = "ArDrive-CLI"
	}
	if client.app.Version == "" {
		client.app.Version = version.Short()
	}
	return client, nil
}

// unixTime returns the current revision timestamp in seconds.
func (c *Client) unixTime() int64 {
	return c.clock.Now().Unix()
}

// requireWallet guards write paths. A Client built without a wallet
// serves reads only.
func (c *Client) requireWallet() error {
	if c.wallet == nil {
		return fmt.Errorf("ardrive: operation requires a wallet")
	}
	return nil
}

// recordTags assembles the final tag set of a record: the prototype's
// protocol tags, the caller's additive tags, and the Boost marker when
// a fee multiple applies.
func (c *Client) recordTags(proto arfs.Prototype, extraTags []ledger.Tag) []ledger.Tag {
	tags := proto.Tags()
	tags = append(tags, extraTags...)
	if boost, ok := c.rewards.BoostTag(); ok {
		tags = append(tags, boost)
	}
	return tags
}

// newSignedTransaction prices and signs one transaction carrying a
// prototype's payload. Target and quantity are zero for entity
// records; tips set both.
func (c *Client) newSignedTransaction(ctx context.Context, proto arfs.Prototype, extraTags []ledger.Tag, target ledger.Address, quantity ledger.Winston) (*ledger.Transaction, error) {
	payload, err := proto.Payload()
	if err != nil {
		return nil, fmt.Errorf("building record payload: %w", err)
	}
	anchor, err := c.submitter.TxAnchor(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching anchor: %w", err)
	}
	estimate, err := c.submitter.Price(ctx, int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("estimating fee: %w", err)
	}

	tx := ledger.NewTransaction(ledger.TxParams{
		Owner:    c.wallet.Owner(),
		Target:   target,
		Quantity: quantity,
		Reward:   c.rewards.Apply(estimate),
		LastTx:   anchor,
		Tags:     c.recordTags(proto, extraTags),
		Data:     payload,
	})
	if err := c.signTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (c *Client) signTransaction(tx *ledger.Transaction) error {
	digest, err := tx.SigningPayload()
	if err != nil {
		return fmt.Errorf("computing signing payload: %w", err)
	}
	signature, err := c.wallet.Sign(digest)
	if err != nil {
		return fmt.Errorf("signing transaction: %w", err)
	}
	return tx.Finalize(signature)
}

// newSignedDataItem signs one bundle item for a prototype. Items pay
// no individual fee and need no anchor; the enclosing bundle
// transaction carries both.
func (c *Client) newSignedDataItem(proto arfs.Prototype, extraTags []ledger.Tag) (*ledger.DataItem, error) {
	payload, err := proto.Payload()
	if err != nil {
		return nil, fmt.Errorf("building record payload: %w", err)
	}
	item := &ledger.DataItem{
		Owner: c.wallet.Owner(),
		Tags:  c.recordTags(proto, extraTags),
		Data:  payload,
	}
	digest, err := item.SigningPayload()
	if err != nil {
		return nil, fmt.Errorf("computing item signing payload: %w", err)
	}
	signature, err := c.wallet.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("signing data item: %w", err)
	}
	if err := item.Finalize(signature); err != nil {
		return nil, err
	}
	return item, nil
}

// newBundleTransaction packs signed items into one outer transaction.
// Confirmation of the outer transaction implies confirmation of every
// item, which is what makes bundled multi-record writes atomic.
func (c *Client) newBundleTransaction(ctx context.Context, items []*ledger.DataItem) (*ledger.Transaction, error) {
	payload, err := bundle.Pack(items)
	if err != nil {
		return nil, fmt.Errorf("packing bundle: %w", err)
	}
	anchor, err := c.submitter.TxAnchor(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching anchor: %w", err)
	}
	estimate, err := c.submitter.Price(ctx, int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("estimating bundle fee: %w", err)
	}

	tags := bundle.Tags()
	tags = append(tags,
		ledger.Tag{Name: arfs.TagAppName, Value: c.app.Name},
		ledger.Tag{Name: arfs.TagAppVersion, Value: c.app.Version},
	)
	if boost, ok := c.rewards.BoostTag(); ok {
		tags = append(tags, boost)
	}

	tx := ledger.NewTransaction(ledger.TxParams{
		Owner:  c.wallet.Owner(),
		Reward: c.rewards.Apply(estimate),
		LastTx: anchor,
		Tags:   tags,
		Data:   payload,
	})
	if err := c.signTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// submit drives one signed transaction's upload to completion, header
// and chunks.
func (c *Client) submit(ctx context.Context, tx *ledger.Transaction, progress func(uploaded, total int)) error {
	uploader, err := ledger.NewTransactionUploader(tx, ledger.UploaderConfig{
		Sink:     c.submitter,
		Clock:    c.clock,
		Logger:   c.logger,
		Progress: progress,
	})
	if err != nil {
		return err
	}
	if err := uploader.Run(ctx); err != nil {
		return err
	}
	c.logger.Info("transaction accepted",
		"tx_id", tx.ID,
		"data_size", tx.DataSize,
		"reward", tx.Reward)
	return nil
}
