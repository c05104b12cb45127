// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Ardrive is the command-line client for a permanent virtual drive
// built on an append-only public ledger. It synthesizes drives,
// folders, and files from tagged ledger records: subcommands create
// drives and folders, upload files, and list folder trees with full
// path annotation, plus wallet management for the signing keypair.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petershepherd/ardrive-cli/cmd/ardrive/cli"
	"github.com/petershepherd/ardrive-cli/lib/version"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return rootCommand().Execute(os.Args[1:])
}

// rootCommand builds the complete ardrive command tree.
func rootCommand() *cli.Command {
	return &cli.Command{
		Name: "ardrive",
		Description: `ArDrive: permanent file storage on a public ledger.

Create drives and folders, upload files, and browse the resulting
tree. Every write is a signed, tagged ledger transaction; reads
reconstruct the drive state from the tagged records alone, so there
is no server-side account or index to depend on.`,
		Subcommands: []*cli.Command{
			driveCommand(),
			folderCommand(),
			fileCommand(),
			walletCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("ardrive %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Generate a wallet keyfile, sealed with a passphrase",
				Command:     "ardrive wallet generate --seal wallet.age",
			},
			{
				Description: "Create a public drive",
				Command:     "ardrive drive create --wallet wallet.age 'Photos'",
			},
			{
				Description: "Upload a file into a folder",
				Command:     "ardrive file upload --wallet wallet.age 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4 ./sunset.jpg",
			},
			{
				Description: "List a folder tree with entity and transaction paths",
				Command:     "ardrive folder list 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4",
			},
		},
	}
}

// commandContext returns a context cancelled by SIGINT or SIGTERM, so
// an interrupted paging loop or chunked upload stops at the next step
// instead of being killed mid-request.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
