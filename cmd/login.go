// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	bizerrors "bizdesk/cli/internal/errors"
	"bizdesk/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// credentialFlags are shared by login and register.
type credentialFlags struct {
	username      string
	passwordStdin bool
	force         bool
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "Username (prompted when omitted)")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().BoolVar(&f.force, "force", false, "Sign in again even when a session exists")
}

func newLoginCmd(a *App) *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with username and password",
		Long: `The login command exchanges your username and password for a session token.
The token is stored in the OS keychain and attached to every later request.

If a session already exists the command does nothing unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.signIn(cmd.Context(), flags, "Signing in", false, a.sessions.Login)
		},
	}
	flags.bind(cmd)
	return cmd
}

type signInCall func(ctx context.Context, username, password string) session.Result

// signIn collects credentials, runs call behind a spinner and reports the outcome.
// The session manager already notified the user of success or failure.
func (a *App) signIn(ctx context.Context, flags credentialFlags, spinnerText string, confirm bool, call signInCall) error {
	if st := a.sessions.EnsureFresh(ctx); st.Authenticated() && !flags.force {
		pterm.Info.WithWriter(a.out).Println("Already logged in. Use --force to sign in again, or 'bizdesk logout' first.")
		return nil
	}

	username, password, err := a.readCredentials(flags, confirm)
	if err != nil {
		return err
	}

	err = a.withSpinner(spinnerText, func() error {
		if res := call(ctx, username, password); !res.OK {
			return errReported
		}
		return nil
	})
	if err != nil {
		return err
	}
	pterm.Fprintln(a.out, "  Run 'bizdesk dashboard' for an overview.")
	return nil
}

func (a *App) readCredentials(flags credentialFlags, confirm bool) (string, string, error) {
	username := flags.username
	if username == "" {
		u, err := a.prompt.Line("Username: ")
		if err != nil {
			return "", "", fmt.Errorf("read username: %w", err)
		}
		username = u
	}

	if flags.passwordStdin {
		p, err := a.prompt.Line("")
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		return username, p, nil
	}

	password, err := a.prompt.Secret("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	if confirm && a.prompt.Interactive() {
		again, err := a.prompt.Secret("Confirm password: ")
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		if again != password {
			return "", "", bizerrors.New(bizerrors.Validation, "passwords do not match")
		}
	}
	return username, password, nil
}
