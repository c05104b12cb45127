// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the ardrive
// binary.
//
// Version information is injected at build time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/petershepherd/ardrive-cli/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time.
var (
	// Version is the semantic version, set manually for releases.
	Version = "0.1.0-dev"

	// GitCommit is the short git SHA of the build.
	GitCommit = ""

	// BuildTime is the UTC timestamp of the build.
	BuildTime = ""
)

// Short returns the bare version number. This is the value stamped
// into the App-Version tag of every record the client writes.
func Short() string {
	return Version
}

// Full returns the multi-line form for --version output.
func Full() string {
	commit := GitCommit
	if commit == "" {
		commit = "unknown"
	}
	built := BuildTime
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("%s (commit %s, built %s)\n  Go: %s\n  Platform: %s/%s",
		Version, commit, built, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
