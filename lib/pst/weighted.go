// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package pst

import (
	"context"
	"errors"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// ErrNoTokenHolders is returned by SelectRecipient when the contract
// state yields an empty weighted table. There is deliberately no
// fallback recipient: tipping a hardcoded address would misdirect
// funds silently.
var ErrNoTokenHolders = errors.New("pst: community contract has no token holders")

// holder is one entry in the recipient lottery.
type holder struct {
	address ledger.Address
	weight  int64
}

// SelectRecipient draws one token holder, with probability
// proportional to the holder's total weight: its balance plus the sum
// of its vault entries.
func (o *Oracle) SelectRecipient(ctx context.Context) (ledger.Address, error) {
	state, err := o.contractState(ctx)
	if err != nil {
		return ledger.Address{}, err
	}
	holders, total := o.tokenHolders(state)
	if total == 0 {
		return ledger.Address{}, ErrNoTokenHolders
	}

	threshold := o.random() * float64(total)
	var cumulative int64
	for _, h := range holders {
		cumulative += h.weight
		if float64(cumulative) > threshold {
			return h.address, nil
		}
	}
	// Float rounding can leave the threshold at the very top of the
	// range; the draw then belongs to the last holder.
	return holders[len(holders)-1].address, nil
}

// tokenHolders folds the balance table and vault entries into one
// weight per address, in sorted address order so equal states yield
// equal tables.
func (o *Oracle) tokenHolders(state []byte) ([]holder, int64) {
	weights := make(map[string]int64)
	gjson.GetBytes(state, "balances").ForEach(func(key, value gjson.Result) bool {
		if amount := value.Int(); amount > 0 {
			weights[key.String()] += amount
		}
		return true
	})
	gjson.GetBytes(state, "vault").ForEach(func(key, value gjson.Result) bool {
		for _, entry := range value.Array() {
			if amount := entry.Get("balance").Int(); amount > 0 {
				weights[key.String()] += amount
			}
		}
		return true
	})

	raws := make([]string, 0, len(weights))
	for raw := range weights {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	holders := make([]holder, 0, len(raws))
	var total int64
	for _, raw := range raws {
		address, err := ledger.ParseAddress(raw)
		if err != nil {
			o.logger.Debug("skipping token holder with malformed address",
				"address", raw, "error", err)
			continue
		}
		holders = append(holders, holder{address: address, weight: weights[raw]})
		total += weights[raw]
	}
	return holders, total
}
