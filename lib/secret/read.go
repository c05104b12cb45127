// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
)

// ReadFromPath reads a secret from a file path, or from stdin if path
// is "-". Drive passwords and wallet passphrases supplied on the
// command line go through this so they land directly in protected
// memory. Surrounding whitespace (most commonly a trailing newline)
// is trimmed; an empty secret is an error. The returned buffer must
// be closed by the caller.
func ReadFromPath(path string) (*Buffer, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	// Scrubs the whitespace bytes around the trimmed secret, and for
	// stdin the line inside the scanner's buffer.
	defer Zero(data)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret is empty")
	}
	return NewFromBytes(trimmed)
}

func readSource(path string) ([]byte, error) {
	if path != "-" {
		return os.ReadFile(path)
	}
	// The returned slice aliases the scanner's buffer: the caller's
	// zeroing reaches the memory the line was read into.
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return nil, fmt.Errorf("stdin is empty")
	}
	return scanner.Bytes(), nil
}
