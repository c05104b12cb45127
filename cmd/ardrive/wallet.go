// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/petershepherd/ardrive-cli/cmd/ardrive/cli"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/secret"
	"github.com/petershepherd/ardrive-cli/lib/wallet"
)

// walletCommand returns the top-level "wallet" command.
func walletCommand() *cli.Command {
	return &cli.Command{
		Name:    "wallet",
		Summary: "Manage the signing wallet",
		Description: `Manage the RSA keypair that signs every ledger write.

Keyfiles are JWK documents, optionally sealed with a passphrase. A
sealed keyfile is safe at rest: the passphrase is required to sign
anything. Every command that writes to the ledger takes the keyfile
via --wallet or the config file.`,
		Subcommands: []*cli.Command{
			walletGenerateCommand(),
			walletSealCommand(),
			walletAddressCommand(),
			walletBalanceCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Generate a sealed keyfile",
				Command:     "ardrive wallet generate --seal wallet.age",
			},
			{
				Description: "Check the wallet's balance",
				Command:     "ardrive wallet balance --wallet wallet.age",
			},
		},
	}
}

type walletGenerateParams struct {
	Seal           bool
	PassphraseFile string
}

func walletGenerateCommand() *cli.Command {
	var params walletGenerateParams

	return &cli.Command{
		Name:    "generate",
		Summary: "Generate a new wallet keyfile",
		Usage:   "ardrive wallet generate <out-file> [flags]",
		Description: `Generate a fresh RSA-4096 wallet and write its keyfile.

With --seal the JWK is encrypted to a passphrase before it touches
disk; without it the file is plaintext key material, written with
owner-only permissions. The wallet address is printed on success.`,
		Examples: []cli.Example{
			{
				Description: "Generate a plaintext JWK (interop with other ledger tools)",
				Command:     "ardrive wallet generate wallet.json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("generate", pflag.ContinueOnError)
			flagSet.BoolVar(&params.Seal, "seal", false, "encrypt the keyfile with a passphrase")
			flagSet.StringVar(&params.PassphraseFile, "passphrase-file", "", "passphrase source: a path, or - for stdin (default: interactive prompt)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one output path, got %d arguments", len(args))
			}
			return runWalletGenerate(args[0], &params)
		},
	}
}

func runWalletGenerate(path string, params *walletGenerateParams) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists; refusing to overwrite a keyfile", path)
	}

	generated, err := wallet.Generate()
	if err != nil {
		return err
	}
	jwk, err := generated.MarshalJWK()
	if err != nil {
		return err
	}
	defer secret.Zero(jwk)

	output := jwk
	if params.Seal {
		// NewFromBytes zeroes jwk; output is reassigned below.
		plaintext, err := secret.NewFromBytes(jwk)
		if err != nil {
			return err
		}
		defer plaintext.Close()
		passphrase, err := cli.ReadPassphrase("keyfile passphrase", params.PassphraseFile)
		if err != nil {
			return err
		}
		defer passphrase.Close()
		output, err = wallet.Seal(plaintext, passphrase)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, output, 0o600); err != nil {
		return fmt.Errorf("writing keyfile: %w", err)
	}
	fmt.Printf("wrote %s\naddress: %s\n", path, generated.Address())
	return nil
}

type walletSealParams struct {
	PassphraseFile string
}

func walletSealCommand() *cli.Command {
	var params walletSealParams

	return &cli.Command{
		Name:    "seal",
		Summary: "Encrypt a plaintext keyfile with a passphrase",
		Usage:   "ardrive wallet seal <in-file> <out-file> [flags]",
		Description: `Seal an existing plaintext JWK keyfile. The input is parsed first,
so a corrupted keyfile is rejected instead of sealed; the plaintext
input file is left in place for the caller to shred.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("seal", pflag.ContinueOnError)
			flagSet.StringVar(&params.PassphraseFile, "passphrase-file", "", "passphrase source: a path, or - for stdin (default: interactive prompt)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected an input and an output path, got %d arguments", len(args))
			}
			return runWalletSeal(args[0], args[1], &params)
		},
	}
}

func runWalletSeal(inPath, outPath string, params *walletSealParams) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading keyfile: %w", err)
	}
	defer secret.Zero(data)
	if wallet.IsSealed(data) {
		return fmt.Errorf("%s is already sealed", inPath)
	}
	if _, err := os.Stat(outPath); err == nil {
		return fmt.Errorf("%s already exists; refusing to overwrite a keyfile", outPath)
	}

	// Parse before sealing: a sealed blob of garbage helps nobody.
	parsed, err := wallet.FromJWK(data)
	if err != nil {
		return err
	}

	// NewFromBytes zeroes data in place.
	plaintext, err := secret.NewFromBytes(data)
	if err != nil {
		return err
	}
	defer plaintext.Close()
	passphrase, err := cli.ReadPassphrase("keyfile passphrase", params.PassphraseFile)
	if err != nil {
		return err
	}
	defer passphrase.Close()

	sealed, err := wallet.Seal(plaintext, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, sealed, 0o600); err != nil {
		return fmt.Errorf("writing sealed keyfile: %w", err)
	}
	fmt.Printf("wrote %s\naddress: %s\n", outPath, parsed.Address())
	return nil
}

func walletAddressCommand() *cli.Command {
	var session cli.Session

	return &cli.Command{
		Name:    "address",
		Summary: "Print the wallet's ledger address",
		Usage:   "ardrive wallet address [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("address", pflag.ContinueOnError)
			session.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			conn, err := session.Connect()
			if err != nil {
				return err
			}
			if conn.Wallet == nil {
				return fmt.Errorf("no wallet configured; pass --wallet")
			}
			fmt.Println(conn.Wallet.Address())
			return nil
		},
	}
}

func walletBalanceCommand() *cli.Command {
	var session cli.Session

	return &cli.Command{
		Name:    "balance",
		Summary: "Print a wallet's winston balance",
		Usage:   "ardrive wallet balance [address] [flags]",
		Description: `Print a wallet balance in winston and AR. With no argument the
configured wallet's own balance is shown; with an address argument
any wallet's balance can be checked without a keyfile.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("balance", pflag.ContinueOnError)
			session.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("unexpected argument: %s", args[1])
			}
			conn, err := session.Connect()
			if err != nil {
				return err
			}

			var address ledger.Address
			if len(args) == 1 {
				address, err = ledger.ParseAddress(args[0])
				if err != nil {
					return err
				}
			} else {
				if conn.Wallet == nil {
					return fmt.Errorf("no wallet configured; pass --wallet or an address argument")
				}
				address = conn.Wallet.Address()
			}

			ctx, stop := commandContext()
			defer stop()

			balance, err := conn.Client.Balance(ctx, address)
			if err != nil {
				return err
			}
			fmt.Printf("%s winston (%s AR)\n", balance, balance.AR())
			return nil
		},
	}
}
