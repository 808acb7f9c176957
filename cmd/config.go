// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"bizdesk/cli/internal/config"
	"bizdesk/cli/internal/output"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type configView []configEntry

type configEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func (v configView) Table() output.Table {
	t := output.Table{Headers: []string{"KEY", "VALUE"}}
	for _, e := range v {
		t.Rows = append(t.Rows, []string{e.Key, e.Value})
	}
	return t
}

func newConfigCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show or change CLI settings",
		Annotations: map[string]string{skipSession: "true"},
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Print effective settings (file, environment and flags combined)",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			view := make(configView, 0, len(config.Keys()))
			for _, k := range config.Keys() {
				v, err := a.cfg.Get(k)
				if err != nil {
					return err
				}
				view = append(view, configEntry{Key: k, Value: v})
			}
			return a.render(view)
		},
	}

	set := &cobra.Command{
		Use:         "set <key> <value>",
		Short:       "Change a setting in the config file",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start from the file alone so env and flag overrides are not persisted.
			c, err := config.LoadFile()
			if err != nil {
				return err
			}
			if err := c.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(c); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			v, _ := c.Get(args[0])
			pterm.Success.WithWriter(a.out).Printfln("%s = %s", args[0], v)
			return nil
		},
	}

	path := &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, p)
			return nil
		},
	}

	cmd.AddCommand(show, set, path)
	return cmd
}
