// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// newLogoutCmd clears the session locally. The API has no logout endpoint, so
// nothing is sent over the network.
func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session token",
		Long: `The logout command removes the session token from the OS keychain and from
the API client. It works offline and is safe to run when not logged in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Println("Logged out")
			return nil
		},
	}
}
