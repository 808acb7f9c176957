// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *App) *cobra.Command {
	var flags credentialFlags
	cmd := &cobra.Command{
		Use:     "register",
		Aliases: []string{"signup"},
		Short:   "Create an account and sign in",
		Long: `The register command creates a new account with the given username and
password. On success the server returns a session token and you are signed in
right away, exactly as after 'bizdesk login'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.signIn(cmd.Context(), flags, "Creating account", true, a.sessions.Register)
		},
	}
	flags.bind(cmd)
	return cmd
}
