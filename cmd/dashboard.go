// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bizdesk/cli/internal/guard"
	"bizdesk/cli/internal/resources"

	"github.com/spf13/cobra"
)

// newDashboardCmd prints the three headline counters. Customers, items and
// orders are fetched concurrently.
func newDashboardCmd(a *App) *cobra.Command {
	return guard.Protect(&cobra.Command{
		Use:   "dashboard",
		Short: "Show totals for customers, stock and orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats resources.Stats
			err := a.withSpinner("Loading stats", func() (err error) {
				stats, err = a.res.Stats(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			return a.render(stats)
		},
	})
}
