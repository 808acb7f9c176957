// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"bizdesk/cli/internal/guard"
	"bizdesk/cli/internal/resources"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type itemFlags struct {
	name     string
	price    float64
	quantity int64
}

func (f *itemFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Item name")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Unit price")
	cmd.Flags().Int64Var(&f.quantity, "quantity", 0, "Quantity in stock")
}

func (f *itemFlags) merge(cmd *cobra.Command, base resources.ItemInput) resources.ItemInput {
	if cmd.Flags().Changed("name") {
		base.Name = f.name
	}
	if cmd.Flags().Changed("price") {
		base.Price = f.price
	}
	if cmd.Flags().Changed("quantity") {
		base.Quantity = f.quantity
	}
	return base
}

func newItemsCmd(a *App) *cobra.Command {
	cmd := guard.Protect(&cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Manage items and stock",
	})

	list := &cobra.Command{
		Use:   "list",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out resources.Items
			err := a.withSpinner("Loading items", func() (err error) {
				out, err = a.res.Items(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			return a.render(out)
		},
	}

	var addFlags itemFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := addFlags.merge(cmd, resources.ItemInput{})
			if err := a.res.CreateItem(cmd.Context(), in); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Printfln("Item %s added", in.Name)
			return nil
		},
	}
	addFlags.bind(add)

	var updFlags itemFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an item; only the given fields are modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.res.Items(cmd.Context())
			if err != nil {
				return err
			}
			var base resources.ItemInput
			found := false
			for _, it := range current {
				if string(it.ID) == args[0] {
					base = resources.ItemInput{Name: it.Name, Price: float64(it.Price), Quantity: int64(it.Quantity)}
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("item %s not found", args[0])
			}
			if err := a.res.UpdateItem(cmd.Context(), args[0], updFlags.merge(cmd, base)); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Printfln("Item %s updated", args[0])
			return nil
		},
	}
	updFlags.bind(update)

	var yes bool
	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.confirmDelete("item", args[0], yes)
			if err != nil || !ok {
				return err
			}
			if err := a.res.DeleteItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Printfln("Item %s deleted", args[0])
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(list, add, update, del)
	return cmd
}
