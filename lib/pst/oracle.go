// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package pst computes community tips from the profit-sharing token
// contract.
//
// The community contract's evaluated state carries a settings list
// with the live fee percentage and the token balance table. ComputeTip
// applies the live percentage to a data cost with a fixed minimum
// floor; SelectRecipient draws one token holder, weighted by holdings,
// to receive the tip. The contract state is fetched once per Oracle
// and reused, which suits a short-lived CLI process.
package pst

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// CommunityContract is the profit-sharing token contract whose state
// holds the fee setting and the token balance table.
var CommunityContract = ledger.MustParseTxID("-8A6RexFkpfWwuyVO98wzSFZh0d6VJuI-buTJvlwOJQ")

// MinimumTip is the default floor for every community tip. ComputeTip
// never returns less than the configured floor, so even a zero-cost
// upload tips this much.
var MinimumTip = ledger.NewWinston(10_000_000)

// defaultFeePercent applies when the contract state carries no usable
// fee setting.
const defaultFeePercent = 15.0

// ContractReader fetches the evaluated state of a smart contract as
// raw JSON.
type ContractReader interface {
	ContractState(ctx context.Context, contract ledger.TxID) ([]byte, error)
}

// OracleConfig configures NewOracle. Reader is required; everything
// else has a default.
type OracleConfig struct {
	Reader ContractReader

	// Contract overrides the community contract. Zero means
	// CommunityContract.
	Contract ledger.TxID

	// Minimum overrides the tip floor. Zero means MinimumTip.
	Minimum ledger.Winston

	// Logger for fee-setting fallbacks and skipped holders. Defaults
	// to slog.Default().
	Logger *slog.Logger

	// Random returns a value in [0, 1) for recipient selection.
	// Defaults to the shared math/rand/v2 generator; tests inject a
	// seeded source.
	Random func() float64
}

// Oracle answers tip-amount and tip-recipient questions from one
// snapshot of the community contract state.
type Oracle struct {
	reader   ContractReader
	contract ledger.TxID
	minimum  ledger.Winston
	logger   *slog.Logger
	random   func() float64

	mu    sync.Mutex
	state []byte
}

// NewOracle validates the configuration and applies defaults.
func NewOracle(config OracleConfig) (*Oracle, error) {
	if config.Reader == nil {
		return nil, fmt.Errorf("pst: OracleConfig.Reader is required")
	}
	oracle := &Oracle{
		reader:   config.Reader,
		contract: config.Contract,
		minimum:  config.Minimum,
		logger:   config.Logger,
		random:   config.Random,
	}
	if oracle.contract.IsZero() {
		oracle.contract = CommunityContract
	}
	if oracle.minimum.IsZero() {
		oracle.minimum = MinimumTip
	}
	if oracle.logger == nil {
		oracle.logger = slog.Default()
	}
	if oracle.random == nil {
		oracle.random = rand.Float64
	}
	return oracle, nil
}

// ComputeTip returns the community tip for an upload with the given
// data cost: the live fee percentage of the cost, rounded up, floored
// at the configured minimum.
func (o *Oracle) ComputeTip(ctx context.Context, dataCost ledger.Winston) (ledger.Winston, error) {
	state, err := o.contractState(ctx)
	if err != nil {
		return ledger.Winston{}, err
	}
	tip := dataCost.MulFloatCeil(o.feePercent(state) / 100)
	if tip.Cmp(o.minimum) < 0 {
		return o.minimum, nil
	}
	return tip, nil
}

// contractState returns the cached contract state, fetching it on
// first use.
func (o *Oracle) contractState(ctx context.Context) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != nil {
		return o.state, nil
	}
	state, err := o.reader.ContractState(ctx, o.contract)
	if err != nil {
		return nil, fmt.Errorf("pst: fetching state of contract %s: %w", o.contract, err)
	}
	if !gjson.ValidBytes(state) {
		return nil, fmt.Errorf("pst: state of contract %s is not valid JSON", o.contract)
	}
	o.state = state
	return state, nil
}

// feePercent extracts the live fee percentage from the contract's
// settings list of [name, value] pairs. A missing or non-positive fee
// falls back to the default with a warning; a bad contract state must
// not block uploads.
func (o *Oracle) feePercent(state []byte) float64 {
	for _, pair := range gjson.GetBytes(state, "settings").Array() {
		entries := pair.Array()
		if len(entries) != 2 || entries[0].String() != "fee" {
			continue
		}
		fee := entries[1].Float()
		if fee > 0 {
			return fee
		}
		o.logger.Warn("community contract fee setting is unusable, using default",
			"fee", entries[1].Raw,
			"default_percent", defaultFeePercent)
		return defaultFeePercent
	}
	o.logger.Warn("community contract has no fee setting, using default",
		"default_percent", defaultFeePercent)
	return defaultFeePercent
}
