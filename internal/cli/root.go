// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks errors caused by invalid arguments or flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// globalFlags are shared by every command.
type globalFlags struct {
	Format string
}

// format parses the --format flag.
func (g *globalFlags) format() (Format, error) {
	f, err := ParseFormat(g.Format)
	if err != nil {
		return "", &usageError{err: err}
	}
	return f, nil
}

func addGlobalFlags(fs *pflag.FlagSet, flags *globalFlags) {
	fs.StringVarP(&flags.Format, "format", "f", string(FormatTable), "Output format: table, json, or yaml.")
}

// NewRootCommand builds the command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	flags := &globalFlags{}
	version := resolvedVersion(deps.Version)

	root := &cobra.Command{
		Use:           "guestmapctl",
		Short:         "Inspect GuestMap messages, geolocation and configuration.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	addGlobalFlags(root.PersistentFlags(), flags)

	root.AddCommand(newMessagesCommand(deps, flags))
	root.AddCommand(newLocateCommand(deps, flags))
	root.AddCommand(newConfigCommand(deps, flags))

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout, stderr io.Writer) int {
	root := NewRootCommand(deps)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		var usage *usageError
		if errors.As(err, &usage) {
			return ExitUsage
		}
		return ExitFailure
	}
	return ExitOK
}

// usageArgs wraps cobra's argument validators so violations exit as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
