// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"strconv"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// RewardSettings controls the mining fee attached to submitted
// transactions. The zero value means "pay exactly the network
// estimate".
type RewardSettings struct {
	// Reward, when non-zero, replaces the network fee estimate
	// entirely. FeeMultiple does not apply to an explicit reward.
	Reward ledger.Winston

	// FeeMultiple scales the network fee estimate to outbid congested
	// mempools. Only values greater than 1.0 take effect; the product
	// rounds up to the next whole winston.
	FeeMultiple float64
}

// Boosted reports whether a fee multiple greater than 1.0 is active.
func (s RewardSettings) Boosted() bool {
	return s.FeeMultiple > 1.0
}

// Apply resolves the reward for one transaction from the network
// estimate.
func (s RewardSettings) Apply(estimate ledger.Winston) ledger.Winston {
	if !s.Reward.IsZero() {
		return s.Reward
	}
	if s.Boosted() {
		return estimate.MulFloatCeil(s.FeeMultiple)
	}
	return estimate
}

// BoostTag returns the Boost tag advertising the applied fee multiple.
// Records carry it only when a boost actually took effect, so its
// presence is meaningful on read.
func (s RewardSettings) BoostTag() (ledger.Tag, bool) {
	if !s.Boosted() || !s.Reward.IsZero() {
		return ledger.Tag{}, false
	}
	return ledger.Tag{
		Name:  arfs.TagBoost,
		Value: strconv.FormatFloat(s.FeeMultiple, 'f', -1, 64),
	}, true
}
