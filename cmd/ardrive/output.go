// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/petershepherd/ardrive-cli/cmd/ardrive/cli"
	"github.com/petershepherd/ardrive-cli/lib/ardrive"
	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// createdOutput is the JSON shape of one created entity.
type createdOutput struct {
	Type         string        `json:"type"`
	EntityID     arfs.EntityID `json:"entity_id"`
	MetadataTxID ledger.TxID   `json:"metadata_tx_id"`
	DataTxID     ledger.TxID   `json:"data_tx_id,omitempty"`
	BundledIn    ledger.TxID   `json:"bundled_in,omitempty"`
}

// tipOutput is the JSON shape of one community tip transfer.
type tipOutput struct {
	TxID      ledger.TxID    `json:"tx_id"`
	Recipient ledger.Address `json:"recipient"`
	Amount    ledger.Winston `json:"amount_winston"`
}

// writeResultOutput is the JSON shape of a write operation's result.
type writeResultOutput struct {
	Created []createdOutput                `json:"created"`
	Tips    []tipOutput                    `json:"tips"`
	Fees    map[ledger.TxID]ledger.Winston `json:"fees_winston"`
}

// newWriteResultOutput flattens a Result for serialization. The
// private-key buffers in the Result never appear here; keys are
// re-derivable from the drive passphrase and are not output material.
func newWriteResultOutput(result *ardrive.Result) writeResultOutput {
	out := writeResultOutput{
		Created: make([]createdOutput, len(result.Created)),
		Tips:    make([]tipOutput, len(result.Tips)),
		Fees:    result.Fees,
	}
	for i, created := range result.Created {
		out.Created[i] = createdOutput{
			Type:         created.Type,
			EntityID:     created.EntityID,
			MetadataTxID: created.MetadataTxID,
			DataTxID:     created.DataTxID,
			BundledIn:    created.BundledIn,
		}
	}
	for i, tip := range result.Tips {
		out.Tips[i] = tipOutput{TxID: tip.TxID, Recipient: tip.Recipient, Amount: tip.Amount}
	}
	return out
}

// printWriteResult renders a write operation's result: as JSON when
// requested, otherwise as a human-readable summary on stdout. It also
// closes any key buffers the result carries; by the time output is
// rendered the keys have served their purpose (they are re-derived
// from the passphrase on the read path).
func printWriteResult(result *ardrive.Result, asJSON bool) error {
	if result == nil {
		return nil
	}
	defer closeResultKeys(result)

	if asJSON {
		return cli.WriteJSON(newWriteResultOutput(result))
	}

	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	for _, created := range result.Created {
		fmt.Fprintf(writer, "created %s\t%s\tmetadata tx %s\n", created.Type, created.EntityID, created.MetadataTxID)
		if !created.DataTxID.IsZero() {
			fmt.Fprintf(writer, "\t\tdata tx %s\n", created.DataTxID)
		}
		if !created.BundledIn.IsZero() {
			fmt.Fprintf(writer, "\t\tbundled in %s\n", created.BundledIn)
		}
	}
	for _, tip := range result.Tips {
		fmt.Fprintf(writer, "tip\t%s winston\tto %s (tx %s)\n", tip.Amount, tip.Recipient, tip.TxID)
	}
	writer.Flush()

	var total ledger.Winston
	for _, fee := range result.Fees {
		total = total.Add(fee)
	}
	fmt.Printf("fees: %s winston (%s AR) across %d transaction(s)\n", total, total.AR(), len(result.Fees))
	return nil
}

func closeResultKeys(result *ardrive.Result) {
	for _, created := range result.Created {
		if created.Key != nil {
			created.Key.Close()
		}
	}
}

// formatSize returns a human-readable byte size.
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
