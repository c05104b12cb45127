// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/petershepherd/ardrive-cli/cmd/ardrive/cli"
	"github.com/petershepherd/ardrive-cli/lib/ardrive"
	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// fileCommand returns the top-level "file" command.
func fileCommand() *cli.Command {
	return &cli.Command{
		Name:    "file",
		Summary: "Upload and inspect files",
		Description: `Upload files into folders and inspect their metadata.

A file is two ledger records: the raw data, and a metadata record
naming it and pointing at the data. Uploads pay the network fee plus
a small community tip to a lottery-selected token holder (disable
with --no-tips).`,
		Subcommands: []*cli.Command{
			fileUploadCommand(),
			fileInfoCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Upload a file",
				Command:     "ardrive file upload --wallet wallet.age 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4 ./sunset.jpg",
			},
			{
				Description: "Estimate the cost without submitting anything",
				Command:     "ardrive file upload --wallet wallet.age --dry-run 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4 ./sunset.jpg",
			},
		},
	}
}

type fileUploadParams struct {
	session             cli.Session
	Name                string
	ContentType         string
	Private             bool
	DrivePassphraseFile string
	Bundle              bool
	DryRun              bool
	JSON                bool
}

func fileUploadCommand() *cli.Command {
	var params fileUploadParams

	return &cli.Command{
		Name:    "upload",
		Summary: "Upload a local file into a folder",
		Usage:   "ardrive file upload <parent-folder-id> <path> [flags]",
		Description: `Upload a local file: the data record first, then a metadata record
pointing at it, plus the community tip transfer.

The total cost is checked against the wallet balance before anything
is submitted. Past that point the transactions upload concurrently;
ledger writes are permanent, so a partial failure is reported with
the identifiers of what did land, and retrying re-submits only the
missing pieces.

Files in a private drive are sealed per file: data and metadata are
each encrypted under a key derived from the drive key and the file's
ID, so sharing one file key exposes exactly one file.

--dry-run prices everything (fees and tip) and prints the result
without submitting; it exits non-zero if the wallet cannot cover the
total, so scripts can gate on affordability.`,
		Examples: []cli.Example{
			{
				Description: "Upload with an explicit name and content type",
				Command:     "ardrive file upload --wallet wallet.age --name 'Sunset (final).jpg' --content-type image/jpeg 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4 ./sunset.jpg",
			},
			{
				Description: "Upload into a private drive, atomically bundled",
				Command:     "ardrive file upload --wallet wallet.age --private --bundle 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4 ./statement.pdf",
			},
			{
				Description: "Boost the mining fee for faster inclusion",
				Command:     "ardrive file upload --wallet wallet.age --boost 1.5 8e6b5563-2a1f-49b4-ae4f-2ed9c2eba3b4 ./sunset.jpg",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			params.session.AddFlags(flagSet)
			flagSet.StringVar(&params.Name, "name", "", "file name on the drive (default: the local file's base name)")
			flagSet.StringVar(&params.ContentType, "content-type", "", "MIME type (default: inferred from the file extension)")
			flagSet.BoolVar(&params.Private, "private", false, "the drive is private; seal data and metadata per file")
			flagSet.StringVar(&params.DrivePassphraseFile, "drive-passphrase-file", "", "drive passphrase source: a path, or - for stdin (default: interactive prompt)")
			flagSet.BoolVar(&params.Bundle, "bundle", false, "pack data and metadata into one atomic bundle transaction")
			flagSet.BoolVar(&params.DryRun, "dry-run", false, "price and sign everything but submit nothing")
			flagSet.BoolVar(&params.JSON, "json", false, "print the result as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected a parent folder ID and a file path, got %d arguments", len(args))
			}
			folderID, err := arfs.ParseEntityID(args[0])
			if err != nil {
				return err
			}
			return runFileUpload(folderID, args[1], &params)
		},
	}
}

func runFileUpload(parentFolderID arfs.EntityID, path string, params *fileUploadParams) error {
	conn, err := params.session.Connect()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	uploadParams := ardrive.UploadFileParams{
		ParentFolderID: parentFolderID,
		Name:           params.Name,
		Data:           data,
		ContentType:    params.ContentType,
		LastModified:   info.ModTime().UnixMilli(),
		Bundle:         params.Bundle,
		DryRun:         params.DryRun,
		Progress:       uploadProgress(),
	}
	if uploadParams.Name == "" {
		uploadParams.Name = filepath.Base(path)
	}

	ctx, stop := commandContext()
	defer stop()

	if params.Private {
		driveID, err := conn.Client.GetDriveIDForFolder(ctx, parentFolderID)
		if err != nil {
			return err
		}
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
		uploadParams.DriveKey = driveKey
	}

	result, err := conn.Client.UploadFile(ctx, uploadParams)
	if err != nil {
		// An affordability failure on a dry run is the answer, not an
		// error: print the shortfall and exit non-zero for scripts.
		var balanceErr *ardrive.InsufficientBalanceError
		if params.DryRun && errors.As(err, &balanceErr) {
			fmt.Printf("insufficient balance: have %s winston, need %s winston\n",
				balanceErr.Balance, balanceErr.Required)
			return &cli.ExitError{Code: 1}
		}
		printWriteResult(result, params.JSON)
		return err
	}
	return printWriteResult(result, params.JSON)
}

// uploadProgress returns a progress callback that rewrites one status
// line on stderr, or nil when stderr is not a terminal (keeping piped
// logs clean).
func uploadProgress() func(uploaded, total int) {
	if !cli.StderrIsTerminal() {
		return nil
	}
	return func(uploaded, total int) {
		if total == 0 {
			return
		}
		fmt.Fprintf(os.Stderr, "\ruploading: %3d%% (%d/%d chunks)", uploaded*100/total, uploaded, total)
		if uploaded == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

type fileInfoParams struct {
	session             cli.Session
	Private             bool
	DrivePassphraseFile string
	JSON                bool
}

// fileInfoOutput is the JSON shape of file info.
type fileInfoOutput struct {
	Name           string        `json:"name"`
	FileID         arfs.EntityID `json:"file_id"`
	DriveID        arfs.EntityID `json:"drive_id"`
	ParentFolderID arfs.EntityID `json:"parent_folder_id"`
	Size           int64         `json:"size"`
	ContentType    string        `json:"content_type"`
	LastModified   int64         `json:"last_modified_ms"`
	DataTxID       ledger.TxID   `json:"data_tx_id"`
	MetadataTxID   ledger.TxID   `json:"metadata_tx_id"`
	CreatedAt      int64         `json:"created_at,omitempty"`
}

func fileInfoCommand() *cli.Command {
	var params fileInfoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show the current metadata of one file",
		Usage:   "ardrive file info <file-id> [flags]",
		Description: `Fetch a file's newest metadata revision and print it.

For files in private drives pass --private; the drive is identified
from the file's own tags and the per-file key is derived from the
drive passphrase.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("info", pflag.ContinueOnError)
			params.session.AddFlags(flagSet)
			flagSet.BoolVar(&params.Private, "private", false, "the file's drive is private; derive keys from a passphrase")
			flagSet.StringVar(&params.DrivePassphraseFile, "drive-passphrase-file", "", "drive passphrase source: a path, or - for stdin (default: interactive prompt)")
			flagSet.BoolVar(&params.JSON, "json", false, "print the result as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one file ID, got %d arguments", len(args))
			}
			fileID, err := arfs.ParseEntityID(args[0])
			if err != nil {
				return err
			}
			return runFileInfo(fileID, &params)
		},
	}
}

func runFileInfo(fileID arfs.EntityID, params *fileInfoParams) error {
	conn, err := params.session.Connect()
	if err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	// The file's metadata is sealed, but its Drive-Id tag is not, so
	// the drive ID for key derivation comes from the tags alone.
	var driveKey *secret.Buffer
	if params.Private {
		driveID, err := conn.Client.GetDriveIDForFile(ctx, fileID)
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

	file, err := conn.Client.GetFile(ctx, fileID, driveKey)
	if err != nil {
		return err
	}

	if params.JSON {
		return cli.WriteJSON(fileInfoOutput{
			Name:           file.Name,
			FileID:         file.ID,
			DriveID:        file.DriveID,
			ParentFolderID: file.ParentFolderID,
			Size:           file.Size,
			ContentType:    file.ContentType,
			LastModified:   file.LastModified,
			DataTxID:       file.DataTxID,
			MetadataTxID:   file.MetaTxID,
			CreatedAt:      file.CreatedAt,
		})
	}

	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "name\t%s\n", file.Name)
	fmt.Fprintf(writer, "file id\t%s\n", file.ID)
	fmt.Fprintf(writer, "drive id\t%s\n", file.DriveID)
	fmt.Fprintf(writer, "parent folder\t%s\n", file.ParentFolderID)
	fmt.Fprintf(writer, "size\t%s\n", formatSize(file.Size))
	fmt.Fprintf(writer, "content type\t%s\n", file.ContentType)
	fmt.Fprintf(writer, "data tx\t%s\n", file.DataTxID)
	fmt.Fprintf(writer, "metadata tx\t%s\n", file.MetaTxID)
	fmt.Fprintf(writer, "created\t%s\n", formatUnixTime(file.CreatedAt))
	return writer.Flush()
}
