// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/petershepherd/ardrive-cli/cmd/ardrive/cli"
	"github.com/petershepherd/ardrive-cli/lib/ardrive"
	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
)

// driveCommand returns the top-level "drive" command.
func driveCommand() *cli.Command {
	return &cli.Command{
		Name:    "drive",
		Summary: "Create and inspect drives",
		Description: `Manage drives, the top-level containers of the virtual file system.

A drive is a metadata record pairing a name with a root folder; every
folder and file belongs to exactly one drive. Private drives seal
their metadata under a key derived from a passphrase and the drive ID,
so the passphrase alone recovers access on any machine.`,
		Subcommands: []*cli.Command{
			driveCreateCommand(),
			driveListCommand(),
			driveInfoCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Create a public drive",
				Command:     "ardrive drive create --wallet wallet.age 'Photos'",
			},
			{
				Description: "Create a private drive (prompts for a drive passphrase)",
				Command:     "ardrive drive create --wallet wallet.age --private 'Tax Records'",
			},
			{
				Description: "List your public drives",
				Command:     "ardrive drive list --wallet wallet.age",
			},
		},
	}
}

type driveCreateParams struct {
	session             cli.Session
	Private             bool
	DrivePassphraseFile string
	Bundle              bool
	JSON                bool
}

func driveCreateCommand() *cli.Command {
	var params driveCreateParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a new drive",
		Usage:   "ardrive drive create <name> [flags]",
		Description: `Create a drive and its root folder.

Two ledger records are written: the root folder first, then the drive
record pointing at it. With --bundle both ride in one outer
transaction, making creation atomic; without it, a failure between the
two submissions leaves the root folder as a detectable orphan, which
the command reports so the drive record can be retried.

With --private, both records are sealed under a key derived from a
drive passphrase and the fresh drive ID. The passphrase is the only
way back in: it is never written anywhere, and the ledger carries
ciphertext only.`,
		Examples: []cli.Example{
			{
				Description: "Create a public drive as one atomic bundle",
				Command:     "ardrive drive create --wallet wallet.age --bundle 'Photos'",
			},
			{
				Description: "Create a private drive with the passphrase read from a file",
				Command:     "ardrive drive create --wallet wallet.age --private --drive-passphrase-file pass.txt 'Tax Records'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			params.session.AddFlags(flagSet)
			flagSet.BoolVar(&params.Private, "private", false, "seal the drive under a passphrase-derived key")
			flagSet.StringVar(&params.DrivePassphraseFile, "drive-passphrase-file", "", "drive passphrase source: a path, or - for stdin (default: interactive prompt)")
			flagSet.BoolVar(&params.Bundle, "bundle", false, "submit both records in one atomic bundle transaction")
			flagSet.BoolVar(&params.JSON, "json", false, "print the result as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one drive name, got %d arguments", len(args))
			}
			return runDriveCreate(args[0], &params)
		},
	}
}

func runDriveCreate(name string, params *driveCreateParams) error {
	conn, err := params.session.Connect()
	if err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	createParams := ardrive.CreateDriveParams{Name: name, Bundle: params.Bundle}

	var result *ardrive.Result
	if params.Private {
		passphrase, err := cli.ReadPassphrase("drive passphrase", params.DrivePassphraseFile)
		if err != nil {
			return err
		}
		defer passphrase.Close()
		result, err = conn.Client.CreatePrivateDrive(ctx, createParams, passphrase)
		if err != nil {
			// A partial result still names what was written.
			printWriteResult(result, params.JSON)
			return err
		}
	} else {
		result, err = conn.Client.CreateDrive(ctx, createParams)
		if err != nil {
			printWriteResult(result, params.JSON)
			return err
		}
	}
	return printWriteResult(result, params.JSON)
}

type driveListParams struct {
	session cli.Session
	Owner   string
	JSON    bool
}

// driveListOutput is the JSON shape of one listed drive.
type driveListOutput struct {
	Name         string        `json:"name"`
	DriveID      arfs.EntityID `json:"drive_id"`
	RootFolderID arfs.EntityID `json:"root_folder_id"`
	Privacy      string        `json:"privacy"`
	MetadataTxID ledger.TxID   `json:"metadata_tx_id"`
	CreatedAt    int64         `json:"created_at,omitempty"`
}

func driveListCommand() *cli.Command {
	var params driveListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the public drives of a wallet",
		Usage:   "ardrive drive list [flags]",
		Description: `List every public drive owned by a wallet address, newest revision
of each.

The owner defaults to the configured wallet's own address; --owner
lists any other wallet's public drives, no wallet file needed.
Private drives never appear here: their records are ciphertext, and
listing them requires fetching each one by ID with its passphrase
(see 'ardrive drive info --private').`,
		Examples: []cli.Example{
			{
				Description: "List another wallet's public drives",
				Command:     "ardrive drive list --owner Zm9ydHktdHdvLWNoYXJhY3RlcnMtb2YtYmFzZTY0dXJs",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			params.session.AddFlags(flagSet)
			flagSet.StringVar(&params.Owner, "owner", "", "wallet address to list (default: the configured wallet)")
			flagSet.BoolVar(&params.JSON, "json", false, "print the result as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runDriveList(&params)
		},
	}
}

func runDriveList(params *driveListParams) error {
	conn, err := params.session.Connect()
	if err != nil {
		return err
	}

	var owner ledger.Address
	if params.Owner != "" {
		owner, err = ledger.ParseAddress(params.Owner)
		if err != nil {
			return fmt.Errorf("--owner: %w", err)
		}
	} else {
		if conn.Wallet == nil {
			return fmt.Errorf("no wallet configured; pass --owner or --wallet")
		}
		owner = conn.Wallet.Address()
	}

	ctx, stop := commandContext()
	defer stop()

	drives, err := conn.Client.ListDrives(ctx, owner)
	if err != nil {
		return err
	}

	if params.JSON {
		rows := make([]driveListOutput, len(drives))
		for i, drive := range drives {
			rows[i] = driveListOutput{
				Name:         drive.Name,
				DriveID:      drive.ID,
				RootFolderID: drive.RootFolderID,
				Privacy:      drive.Privacy,
				MetadataTxID: drive.MetaTxID,
				CreatedAt:    drive.CreatedAt,
			}
		}
		return cli.WriteJSON(rows)
	}

	if len(drives) == 0 {
		fmt.Printf("no public drives for %s\n", owner)
		return nil
	}
	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tDRIVE ID\tROOT FOLDER\tCREATED")
	for _, drive := range drives {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", drive.Name, drive.ID, drive.RootFolderID, formatUnixTime(drive.CreatedAt))
	}
	return writer.Flush()
}

type driveInfoParams struct {
	session             cli.Session
	Private             bool
	DrivePassphraseFile string
	JSON                bool
}

// driveInfoOutput is the JSON shape of drive info.
type driveInfoOutput struct {
	Name         string        `json:"name"`
	DriveID      arfs.EntityID `json:"drive_id"`
	RootFolderID arfs.EntityID `json:"root_folder_id"`
	Privacy      string        `json:"privacy"`
	AuthMode     string        `json:"auth_mode,omitempty"`
	Cipher       string        `json:"cipher,omitempty"`
	MetadataTxID ledger.TxID   `json:"metadata_tx_id"`
	CreatedAt    int64         `json:"created_at,omitempty"`
}

func driveInfoCommand() *cli.Command {
	var params driveInfoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show the current state of one drive",
		Usage:   "ardrive drive info <drive-id> [flags]",
		Description: `Fetch a drive's newest revision and print it.

Public drives need no wallet or key. For a private drive pass
--private: the drive key is re-derived from the passphrase and the
drive ID, and a wrong passphrase is reported as a decryption failure,
never as a garbled name.`,
		Examples: []cli.Example{
			{
				Description: "Inspect a private drive",
				Command:     "ardrive drive info --private 1f45a0d9-7f8a-4b6e-9256-38aa1ad78ffe",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("info", pflag.ContinueOnError)
			params.session.AddFlags(flagSet)
			flagSet.BoolVar(&params.Private, "private", false, "the drive is private; derive its key from a passphrase")
			flagSet.StringVar(&params.DrivePassphraseFile, "drive-passphrase-file", "", "drive passphrase source: a path, or - for stdin (default: interactive prompt)")
			flagSet.BoolVar(&params.JSON, "json", false, "print the result as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one drive ID, got %d arguments", len(args))
			}
			driveID, err := arfs.ParseEntityID(args[0])
			if err != nil {
				return err
			}
			return runDriveInfo(driveID, &params)
		},
	}
}

func runDriveInfo(driveID arfs.EntityID, params *driveInfoParams) error {
	conn, err := params.session.Connect()
	if err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	var drive *arfs.Drive
	if params.Private {
		passphrase, err := cli.ReadPassphrase("drive passphrase", params.DrivePassphraseFile)
		if err != nil {
			return err
		}
		defer passphrase.Close()
		driveKey, err := arfs.DeriveDriveKey(passphrase, driveID)
		if err != nil {
			return err
		}
		defer driveKey.Close()
		drive, err = conn.Client.GetPrivateDrive(ctx, driveID, driveKey)
		if err != nil {
			return err
		}
	} else {
		drive, err = conn.Client.GetDrive(ctx, driveID)
		if err != nil {
			return err
		}
	}

	if params.JSON {
		return cli.WriteJSON(driveInfoOutput{
			Name:         drive.Name,
			DriveID:      drive.ID,
			RootFolderID: drive.RootFolderID,
			Privacy:      drive.Privacy,
			AuthMode:     drive.AuthMode,
			Cipher:       drive.Cipher,
			MetadataTxID: drive.MetaTxID,
			CreatedAt:    drive.CreatedAt,
		})
	}

	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "name\t%s\n", drive.Name)
	fmt.Fprintf(writer, "drive id\t%s\n", drive.ID)
	fmt.Fprintf(writer, "root folder\t%s\n", drive.RootFolderID)
	fmt.Fprintf(writer, "privacy\t%s\n", drive.Privacy)
	if drive.IsPrivate() {
		fmt.Fprintf(writer, "auth mode\t%s\n", drive.AuthMode)
		fmt.Fprintf(writer, "cipher\t%s\n", drive.Cipher)
	}
	fmt.Fprintf(writer, "metadata tx\t%s\n", drive.MetaTxID)
	fmt.Fprintf(writer, "created\t%s\n", formatUnixTime(drive.CreatedAt))
	return writer.Flush()
}

// formatUnixTime renders a Unix-Time tag value for table output. Zero
// (missing or malformed tag) renders as a dash rather than 1970.
func formatUnixTime(seconds int64) string {
	if seconds == 0 {
		return "-"
	}
	return time.Unix(seconds, 0).UTC().Format(time.RFC3339)
}
