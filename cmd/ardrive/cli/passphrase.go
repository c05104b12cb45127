// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/petershepherd/ardrive-cli/lib/secret"
)

// ReadPassphrase reads a drive password or wallet passphrase into
// protected memory. If file is non-empty it names the source: a path,
// or "-" for one line of stdin. An empty file prompts interactively
// on the terminal with echo disabled.
//
// The returned buffer must be closed by the caller.
func ReadPassphrase(prompt, file string) (*secret.Buffer, error) {
	if file != "" {
		return secret.ReadFromPath(file)
	}

	// Interactive prompt — read from the terminal with echo disabled.
	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return nil, fmt.Errorf("no terminal available for interactive %s prompt (use --passphrase-file)", prompt)
	}

	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	passphraseBytes, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", prompt, err)
	}
	if len(passphraseBytes) == 0 {
		return nil, fmt.Errorf("empty %s", prompt)
	}

	buffer, err := secret.NewFromBytes(passphraseBytes)
	if err != nil {
		secret.Zero(passphraseBytes)
		return nil, err
	}
	return buffer, nil
}
