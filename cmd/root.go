// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Bizdesk CLI.
// It implements sign-in, session and resource subcommands on top of the Cobra
// framework. Every command receives the shared App built by the root command;
// protected commands are gated by the session guard before they run.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bizdesk/cli/internal/guard"

	"github.com/spf13/cobra"
)

// skipSession marks commands that never touch the credential store.
const skipSession = "bizdesk/skip-session"

// newRootCmd builds the command tree around a.
func newRootCmd(a *App) *cobra.Command {
	var showVersion bool

	root := &cobra.Command{
		Use:   "bizdesk",
		Short: "Bizdesk CLI for managing customers, items and orders",
		Long: `Bizdesk is a command-line client for the Bizdesk business API.

Sign in with 'bizdesk login' (or create an account with 'bizdesk register').
The session token is kept in your OS keychain and sent with every request,
so customers, items, orders, history and dashboard work until you log out
or the server rejects the session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			if !needsSession(cmd) {
				return nil
			}
			if err := a.setup(cmd.Context()); err != nil {
				return err
			}
			if guard.IsProtected(cmd) {
				return a.guard.Require(cmd.Context(), cmd.Name())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(a.out, "bizdesk %s\n", Version)
				return nil
			}
			return cmd.Help()
		},
	}
	root.Annotations = map[string]string{skipSession: "true"}

	root.Flags().BoolVar(&showVersion, "version", false, "Show CLI version")
	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.apiURL, "api-url", "", "Base URL of the Bizdesk API (overrides config and BIZDESK_API_URL)")
	pf.StringVarP(&a.flags.output, "output", "o", "", "Output format: table, json or yaml")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newVersionCmd(a),
		newConfigCmd(a),
		newCustomersCmd(a),
		newItemsCmd(a),
		newOrdersCmd(a),
		newHistoryCmd(a),
		newDashboardCmd(a),
	)
	return root
}

// Execute runs the CLI application and exits non-zero on failure.
func Execute() {
	a := NewApp()
	if err := run(context.Background(), a, os.Args[1:]); err != nil {
		a.reportError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *App, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root.ExecuteContext(ctx)
}

// needsSession reports whether cmd must open the credential store first.
// Cobra's generated help and completion commands never do.
func needsSession(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return false
		}
	}
	return cmd.Annotations[skipSession] != "true"
}

// errReported marks a failure the user has already been told about.
var errReported = errors.New("already reported")
