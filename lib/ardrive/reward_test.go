// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ardrive

import (
	"testing"

	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

func TestRewardSettingsApply(t *testing.T) {
	tests := []struct {
		name     string
		settings RewardSettings
		estimate ledger.Winston
		want     ledger.Winston
	}{
		{
			name:     "zero value pays the estimate",
			estimate: ledger.NewWinston(100),
			want:     ledger.NewWinston(100),
		},
		{
			name:     "explicit reward replaces the estimate",
			settings: RewardSettings{Reward: ledger.NewWinston(777)},
			estimate: ledger.NewWinston(100),
			want:     ledger.NewWinston(777),
		},
		{
			name:     "explicit reward ignores the multiple",
			settings: RewardSettings{Reward: ledger.NewWinston(777), FeeMultiple: 3},
			estimate: ledger.NewWinston(100),
			want:     ledger.NewWinston(777),
		},
		{
			name:     "multiple scales and rounds up",
			settings: RewardSettings{FeeMultiple: 1.5},
			estimate: ledger.NewWinston(101),
			want:     ledger.NewWinston(152),
		},
		{
			name:     "multiple of one is inert",
			settings: RewardSettings{FeeMultiple: 1},
			estimate: ledger.NewWinston(100),
			want:     ledger.NewWinston(100),
		},
		{
			name:     "sub-unity multiple never discounts",
			settings: RewardSettings{FeeMultiple: 0.5},
			estimate: ledger.NewWinston(100),
			want:     ledger.NewWinston(100),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.Apply(tt.estimate); got.Cmp(tt.want) != 0 {
				t.Errorf("Apply(%s) = %s, want %s", tt.estimate, got, tt.want)
			}
		})
	}
}

func TestRewardSettingsBoostTag(t *testing.T) {
	tests := []struct {
		name      string
		settings  RewardSettings
		wantTag   bool
		wantValue string
	}{
		{
			name: "zero value advertises nothing",
		},
		{
			name:      "active multiple is advertised",
			settings:  RewardSettings{FeeMultiple: 2.5},
			wantTag:   true,
			wantValue: "2.5",
		},
		{
			name:     "multiple of one advertises nothing",
			settings: RewardSettings{FeeMultiple: 1},
		},
		{
			name:     "explicit reward suppresses the tag",
			settings: RewardSettings{Reward: ledger.NewWinston(777), FeeMultiple: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := tt.settings.BoostTag()
			if ok != tt.wantTag {
				t.Fatalf("BoostTag() ok = %v, want %v", ok, tt.wantTag)
			}
			if !ok {
				return
			}
			if tag.Name != arfs.TagBoost || tag.Value != tt.wantValue {
				t.Errorf("BoostTag() = %+v, want {%s %s}", tag, arfs.TagBoost, tt.wantValue)
			}
		})
	}
}
