// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/petershepherd/ardrive-cli/lib/ardrive"
	"github.com/petershepherd/ardrive-cli/lib/arfs"
	"github.com/petershepherd/ardrive-cli/lib/cache"
	"github.com/petershepherd/ardrive-cli/lib/config"
	"github.com/petershepherd/ardrive-cli/lib/gateway"
	"github.com/petershepherd/ardrive-cli/lib/ledger"
	"github.com/petershepherd/ardrive-cli/lib/pst"
	"github.com/petershepherd/ardrive-cli/lib/secret"
	"github.com/petershepherd/ardrive-cli/lib/wallet"
)

// Session holds the flags shared by every subcommand that talks to
// the ledger. Flag values override the config file field by field.
//
// Usage pattern:
//
//	var session cli.Session
//	command := &cli.Command{
//	    Flags: func() *pflag.FlagSet {
//	        fs := pflag.NewFlagSet("upload", pflag.ContinueOnError)
//	        session.AddFlags(fs)
//	        return fs
//	    },
//	    Run: func(args []string) error {
//	        conn, err := session.Connect()
//	        ...
//	    },
//	}
type Session struct {
	ConfigFile           string
	GatewayURL           string
	WalletFile           string
	WalletPassphraseFile string
	NoTips               bool
	Boost                float64
}

// AddFlags registers the shared connection flags on the given flag
// set.
func (s *Session) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&s.ConfigFile, "config", "", "config file path (default: $ARDRIVE_CONFIG, then built-in defaults)")
	flagSet.StringVar(&s.GatewayURL, "gateway", "", "gateway base URL (overrides config)")
	flagSet.StringVar(&s.WalletFile, "wallet", "", "wallet keyfile path, plain JWK or age-sealed (overrides config)")
	flagSet.StringVar(&s.WalletPassphraseFile, "wallet-passphrase-file", "", "passphrase source for a sealed wallet keyfile: a path, or - for stdin (default: interactive prompt)")
	flagSet.BoolVar(&s.NoTips, "no-tips", false, "skip the community tip on uploads")
	flagSet.Float64Var(&s.Boost, "boost", 0, "mining fee multiplier, >= 1")
}

// Connection is an assembled client plus the collaborators commands
// occasionally need directly.
type Connection struct {
	// Client executes every ledger operation.
	Client *ardrive.Client

	// Wallet is the loaded signing wallet, nil when no wallet file is
	// configured. Commands that default to "my own address" read it
	// here.
	Wallet wallet.Wallet

	// Config is the effective configuration after flag overrides.
	Config *config.Config
}

// Connect loads the configuration, applies the flag overrides, and
// assembles the gateway, wallet, tip oracle, snapshot cache, and
// client. A sealed wallet keyfile prompts for its passphrase here,
// so commands that never need the wallet never prompt.
func (s *Session) Connect() (*Connection, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := NewCommandLogger()

	timeout, err := time.ParseDuration(cfg.Gateway.Timeout)
	if err != nil {
		return nil, fmt.Errorf("gateway.timeout: %w", err)
	}
	gatewayClient, err := gateway.NewClient(gateway.ClientConfig{
		URL:        cfg.Gateway.URL,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	var signer wallet.Wallet
	if cfg.Wallet.File != "" {
		loaded, err := s.loadWallet(cfg.Wallet.File)
		if err != nil {
			return nil, err
		}
		signer = loaded
	}

	var oracle *pst.Oracle
	if !cfg.Tips.Disabled {
		oracleConfig := pst.OracleConfig{Reader: gatewayClient, Logger: logger}
		if cfg.Tips.Contract != "" {
			contract, err := ledger.ParseTxID(cfg.Tips.Contract)
			if err != nil {
				return nil, fmt.Errorf("tips.contract: %w", err)
			}
			oracleConfig.Contract = contract
		}
		if cfg.Tips.MinimumWinston > 0 {
			oracleConfig.Minimum = ledger.NewWinston(cfg.Tips.MinimumWinston)
		}
		oracle, err = pst.NewOracle(oracleConfig)
		if err != nil {
			return nil, err
		}
	}

	var store *cache.Store
	if cfg.Cache.Dir != "" {
		compression, err := cache.ParseCompression(cfg.Cache.Compression)
		if err != nil {
			return nil, fmt.Errorf("cache.compression: %w", err)
		}
		var ttl time.Duration
		if cfg.Cache.TTL != "" {
			ttl, err = time.ParseDuration(cfg.Cache.TTL)
			if err != nil {
				return nil, fmt.Errorf("cache.ttl: %w", err)
			}
		}
		store, err = cache.NewStore(cache.Config{
			Dir:         cfg.Cache.Dir,
			TTL:         ttl,
			Compression: compression,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("opening snapshot cache: %w", err)
		}
	}

	client, err := ardrive.NewClient(ardrive.Config{
		Queryer:   gatewayClient,
		Submitter: gatewayClient,
		Wallet:    signer,
		Oracle:    oracle,
		Cache:     store,
		Logger:    logger,
		App:       arfs.AppIdentity{Name: cfg.App.Name, Version: cfg.App.Version},
		Rewards:   ardrive.RewardSettings{FeeMultiple: s.Boost},
	})
	if err != nil {
		return nil, err
	}

	return &Connection{Client: client, Wallet: signer, Config: cfg}, nil
}

// loadConfig reads the config file (explicit flag, then ARDRIVE_CONFIG,
// then defaults), applies flag overrides, and validates the result.
func (s *Session) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if s.ConfigFile != "" {
		cfg, err = config.LoadFile(s.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if s.GatewayURL != "" {
		cfg.Gateway.URL = s.GatewayURL
	}
	if s.WalletFile != "" {
		cfg.Wallet.File = s.WalletFile
	}
	if s.NoTips {
		cfg.Tips.Disabled = true
	}
	if s.Boost != 0 && s.Boost < 1 {
		return nil, fmt.Errorf("--boost must be at least 1, got %g", s.Boost)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadWallet reads a keyfile in either form, prompting for the
// passphrase only when the file is sealed.
func (s *Session) loadWallet(path string) (*wallet.RSAWallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wallet keyfile: %w", err)
	}
	// A plain JWK holds the private key; zero it once parsed.
	defer secret.Zero(data)

	if !wallet.IsSealed(data) {
		return wallet.Load(data, nil)
	}

	passphrase, err := ReadPassphrase("wallet passphrase", s.WalletPassphraseFile)
	if err != nil {
		return nil, err
	}
	defer passphrase.Close()
	return wallet.Load(data, passphrase)
}
