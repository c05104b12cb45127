// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/petershepherd/ardrive-cli/cmd/ardrive/cli"
	"github.com/petershepherd/ardrive-cli/lib/ardrive"
	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// folderCommand returns the top-level "folder" command.
func folderCommand() *cli.Command {
	return &cli.Command{
		Name:    "folder",
		Summary: "Create folders and list folder trees",
		Description: `Manage folders, the tree structure inside a drive.

Folders are flat metadata records linked by Parent-Folder-Id tags;
listing reconstructs the tree client-side and annotates every entry
with three parallel paths: names, entity IDs, and metadata
transaction IDs.`,
		Subcommands: []*cli.Command{
			folderCreateCommand(),
			folderListCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Create a folder under a drive's root",
				Command:     "ardrive folder create --wallet wallet.age 1f45a0d9-7f8a-4b6e-9256-38aa1ad78ffe 'Vacation 2026'",
			},
			{
				Description: "List everything under a folder",
				Command:     "ardrive folder list 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4",
			},
		},
	}
}

type folderCreateParams struct {
	session             cli.Session
	Parent              string
	Private             bool
	DrivePassphraseFile string
	Bundle              bool
	JSON                bool
}

func folderCreateCommand() *cli.Command {
	var params folderCreateParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a new folder in a drive",
		Usage:   "ardrive folder create <drive-id> <name> [flags]",
		Description: `Write a folder record into an existing drive.

With --parent the new folder attaches under that folder, which must
belong to the stated drive; a parent from a different drive is
rejected before anything is written. Without --parent the folder
attaches under the drive's root folder.

Folders in a private drive are sealed under the drive key; pass
--private and the drive passphrase.`,
		Examples: []cli.Example{
			{
				Description: "Create a nested folder",
				Command:     "ardrive folder create --wallet wallet.age --parent 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4 1f45a0d9-7f8a-4b6e-9256-38aa1ad78ffe 'Receipts'",
			},
			{
				Description: "Create a folder in a private drive",
				Command:     "ardrive folder create --wallet wallet.age --private 1f45a0d9-7f8a-4b6e-9256-38aa1ad78ffe 'Receipts'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			params.session.AddFlags(flagSet)
			flagSet.StringVar(&params.Parent, "parent", "", "parent folder ID (default: the drive's root folder)")
			flagSet.BoolVar(&params.Private, "private", false, "the drive is private; seal the folder under its key")
			flagSet.StringVar(&params.DrivePassphraseFile, "drive-passphrase-file", "", "drive passphrase source: a path, or - for stdin (default: interactive prompt)")
			flagSet.BoolVar(&params.Bundle, "bundle", false, "submit the record inside a bundle transaction")
			flagSet.BoolVar(&params.JSON, "json", false, "print the result as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected a drive ID and a folder name, got %d arguments", len(args))
			}
			driveID, err := arfs.ParseEntityID(args[0])
			if err != nil {
				return err
			}
			return runFolderCreate(driveID, args[1], &params)
		},
	}
}

func runFolderCreate(driveID arfs.EntityID, name string, params *folderCreateParams) error {
	conn, err := params.session.Connect()
	if err != nil {
		return err
	}

	createParams := ardrive.CreateFolderParams{
		DriveID: driveID,
		Name:    name,
		Bundle:  params.Bundle,
	}
	if params.Parent != "" {
		parentID, err := arfs.ParseEntityID(params.Parent)
		if err != nil {
			return fmt.Errorf("--parent: %w", err)
		}
		createParams.ParentFolderID = parentID
	}

	ctx, stop := commandContext()
	defer stop()

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
		createParams.DriveKey = driveKey
	}

	result, err := conn.Client.CreateFolder(ctx, createParams)
	if err != nil {
		printWriteResult(result, params.JSON)
		return err
	}
	return printWriteResult(result, params.JSON)
}

type folderListParams struct {
	session             cli.Session
	Private             bool
	DrivePassphraseFile string
	JSON                bool
}

// folderListOutput is the JSON shape of one listing row.
type folderListOutput struct {
	Type         string        `json:"type"`
	Name         string        `json:"name"`
	EntityID     arfs.EntityID `json:"entity_id"`
	Size         int64         `json:"size,omitempty"`
	ContentType  string        `json:"content_type,omitempty"`
	DataTxID     ledger.TxID   `json:"data_tx_id,omitempty"`
	MetadataTxID ledger.TxID   `json:"metadata_tx_id"`
	Path         string        `json:"path"`
	IDPath       string        `json:"id_path"`
	TxPath       string        `json:"tx_path"`
}

func folderListCommand() *cli.Command {
	var params folderListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List a folder and everything beneath it",
		Usage:   "ardrive folder list <folder-id> [flags]",
		Description: `List a folder's subtree: the folder itself, every descendant folder,
and every file inside them, each reduced to its newest revision.

Paths are computed against the full drive tree, so listing a nested
folder still shows positions relative to the drive root. Every row
carries three parallel paths with identical segment structure: names,
entity IDs, and metadata transaction IDs.

The drive root's own folder ID works here too and lists the whole
drive.`,
		Examples: []cli.Example{
			{
				Description: "List a private drive's folder",
				Command:     "ardrive folder list --private 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4",
			},
			{
				Description: "Machine-readable listing with all three path forms",
				Command:     "ardrive folder list --json 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			params.session.AddFlags(flagSet)
			flagSet.BoolVar(&params.Private, "private", false, "the drive is private; derive its key from a passphrase")
			flagSet.StringVar(&params.DrivePassphraseFile, "drive-passphrase-file", "", "drive passphrase source: a path, or - for stdin (default: interactive prompt)")
			flagSet.BoolVar(&params.JSON, "json", false, "print the result as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one folder ID, got %d arguments", len(args))
			}
			folderID, err := arfs.ParseEntityID(args[0])
			if err != nil {
				return err
			}
			return runFolderList(folderID, &params)
		},
	}
}

func runFolderList(folderID arfs.EntityID, params *folderListParams) error {
	conn, err := params.session.Connect()
	if err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	// The drive key is derived from the passphrase and the drive ID,
	// which the folder's own tags reveal without any decryption.
	var driveKey *secret.Buffer
	if params.Private {
		driveID, err := conn.Client.GetDriveIDForFolder(ctx, folderID)
		if err != nil {
			return err
		}
		passphrase, err := cli.ReadPassphrase("drive passphrase", params.DrivePassphraseFile)
		if err != nil {
			return err
		}
		defer passphrase.Close()
		driveKey, err = arfs.DeriveDriveKey(passphrase, driveID)
		if err != nil {
			return err
		}
		defer driveKey.Close()
	}

	listing, err := conn.Client.ListFolder(ctx, folderID, driveKey)
	if err != nil {
		return err
	}

	if params.JSON {
		rows := make([]folderListOutput, len(listing))
		for i, entry := range listing {
			rows[i] = listedEntityOutput(entry)
		}
		return cli.WriteJSON(rows)
	}

	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "PATH\tTYPE\tSIZE\tENTITY ID\tMETADATA TX")
	for _, entry := range listing {
		switch {
		case entry.Folder != nil:
			fmt.Fprintf(writer, "%s\tfolder\t\t%s\t%s\n", entry.Path, entry.Folder.ID, entry.Folder.MetaTxID)
		case entry.File != nil:
			fmt.Fprintf(writer, "%s\tfile\t%s\t%s\t%s\n", entry.Path, formatSize(entry.File.Size), entry.File.ID, entry.File.MetaTxID)
		}
	}
	return writer.Flush()
}

func listedEntityOutput(entry ardrive.ListedEntity) folderListOutput {
	row := folderListOutput{
		Path:   entry.Path,
		IDPath: entry.IDPath,
		TxPath: entry.TxPath,
	}
	switch {
	case entry.Folder != nil:
		row.Type = arfs.EntityTypeFolder
		row.Name = entry.Folder.Name
		row.EntityID = entry.Folder.ID
		row.MetadataTxID = entry.Folder.MetaTxID
	case entry.File != nil:
		row.Type = arfs.EntityTypeFile
		row.Name = entry.File.Name
		row.EntityID = entry.File.ID
		row.Size = entry.File.Size
		row.ContentType = entry.File.ContentType
		row.DataTxID = entry.File.DataTxID
		row.MetadataTxID = entry.File.MetaTxID
	}
	return row
}
