// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "ardrive",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "drive",
				Run: func(args []string) error {
					called = "drive"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"drive"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "drive" {
		t.Errorf("dispatched to %q, want %q", called, "drive")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "ardrive",
		Subcommands: []*Command{
			{
				Name: "drive",
				Subcommands: []*Command{
					{
						Name: "create",
						Run: func(args []string) error {
							called = "drive create"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"drive", "create", "my-drive"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "drive create" {
		t.Errorf("dispatched to %q, want %q", called, "drive create")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "my-drive" {
		t.Errorf("args = %v, want [my-drive]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var gatewayURL string
	var target string

	command := &Command{
		Name: "upload",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			flagSet.StringVar(&gatewayURL, "gateway", "https://arweave.net", "gateway URL")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--gateway", "http://localhost:1984", "report.pdf"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if gatewayURL != "http://localhost:1984" {
		t.Errorf("gatewayURL = %q, want %q", gatewayURL, "http://localhost:1984")
	}
	if target != "report.pdf" {
		t.Errorf("target = %q, want %q", target, "report.pdf")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "upload",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			flagSet.Bool("bundle", false, "pack records into a bundle")
			flagSet.String("gateway", "", "gateway URL")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--bundel"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --bundle") {
		t.Errorf("error = %q, want suggestion for '--bundle'", errStr)
	}
	if !strings.Contains(errStr, "bundel") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "upload",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			flagSet.Bool("bundle", false, "pack records into a bundle")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "ardrive",
		Subcommands: []*Command{
			{Name: "drive"},
			{Name: "folder"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"folde"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"folder\"") {
		t.Errorf("error = %q, want suggestion for 'folder'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "ardrive",
		Subcommands: []*Command{
			{Name: "drive"},
			{Name: "folder"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "ardrive",
				Summary: "permanent-storage drive client",
				Subcommands: []*Command{
					{Name: "drive", Summary: "Drive operations"},
				},
			}

			err := root.Execute([]string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "ardrive",
		Subcommands: []*Command{
			{Name: "drive", Summary: "Drive operations"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "ardrive",
		Description: "Client for a ledger-backed virtual drive.",
		Subcommands: []*Command{
			{Name: "drive", Summary: "Create and list drives"},
			{Name: "file", Summary: "Upload files"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Create a public drive",
				Command:     "ardrive drive create photos",
			},
			{
				Description: "Upload a file into a folder",
				Command:     "ardrive file upload <folder-id> ./report.pdf",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	// Verify structural elements are present.
	for _, want := range []string{
		"Client for a ledger-backed virtual drive.",
		"Usage:",
		"ardrive <command> [flags]",
		"Commands:",
		"drive",
		"Create and list drives",
		"file",
		"Upload files",
		"Examples:",
		"ardrive drive create photos",
		"ardrive file upload",
		"Run 'ardrive <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "upload",
		Summary: "Upload a file",
		Usage:   "ardrive file upload <folder-id> <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			flagSet.String("content-type", "", "MIME type override")
			flagSet.Bool("bundle", false, "pack records into a bundle")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"ardrive file upload <folder-id> <path> [flags]",
		"Flags:",
		"content-type",
		"bundle",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "ardrive"}
	drive := &Command{Name: "drive", parent: root}
	create := &Command{Name: "create", parent: drive}

	if got := root.fullName(); got != "ardrive" {
		t.Errorf("root.fullName() = %q, want %q", got, "ardrive")
	}
	if got := drive.fullName(); got != "ardrive drive" {
		t.Errorf("drive.fullName() = %q, want %q", got, "ardrive drive")
	}
	if got := create.fullName(); got != "ardrive drive create" {
		t.Errorf("create.fullName() = %q, want %q", got, "ardrive drive create")
	}
}
