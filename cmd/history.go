// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bizdesk/cli/internal/guard"
	"bizdesk/cli/internal/resources"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *App) *cobra.Command {
	return guard.Protect(&cobra.Command{
		Use:   "history",
		Short: "Show the order history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out resources.History
			err := a.withSpinner("Loading order history", func() (err error) {
				out, err = a.res.History(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			return a.render(out)
		},
	})
}
