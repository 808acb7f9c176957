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

type customerFlags struct {
	name, nic, contact, address string
}

func (f *customerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Customer name")
	cmd.Flags().StringVar(&f.nic, "nic", "", "National identity card number")
	cmd.Flags().StringVar(&f.contact, "contact", "", "Contact number")
	cmd.Flags().StringVar(&f.address, "address", "", "Postal address")
}

// merge overlays the flags the user actually set onto base.
func (f *customerFlags) merge(cmd *cobra.Command, base resources.CustomerInput) resources.CustomerInput {
	if cmd.Flags().Changed("name") {
		base.Name = f.name
	}
	if cmd.Flags().Changed("nic") {
		base.NIC = f.nic
	}
	if cmd.Flags().Changed("contact") {
		base.ContactNo = f.contact
	}
	if cmd.Flags().Changed("address") {
		base.Address = f.address
	}
	return base
}

func newCustomersCmd(a *App) *cobra.Command {
	cmd := guard.Protect(&cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "Manage customers",
	})

	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out resources.Customers
			err := a.withSpinner("Loading customers", func() (err error) {
				out, err = a.res.Customers(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			return a.render(out)
		},
	}

	var addFlags customerFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := addFlags.merge(cmd, resources.CustomerInput{})
			if err := a.res.CreateCustomer(cmd.Context(), in); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Printfln("Customer %s added", in.Name)
			return nil
		},
	}
	addFlags.bind(add)

	var updFlags customerFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a customer; only the given fields are modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.res.Customers(cmd.Context())
			if err != nil {
				return err
			}
			base, ok := findCustomer(current, args[0])
			if !ok {
				return fmt.Errorf("customer %s not found", args[0])
			}
			if err := a.res.UpdateCustomer(cmd.Context(), args[0], updFlags.merge(cmd, base)); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Printfln("Customer %s updated", args[0])
			return nil
		},
	}
	updFlags.bind(update)

	var yes bool
	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a customer",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.confirmDelete("customer", args[0], yes)
			if err != nil || !ok {
				return err
			}
			if err := a.res.DeleteCustomer(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Printfln("Customer %s deleted", args[0])
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(list, add, update, del)
	return cmd
}

func findCustomer(list resources.Customers, id string) (resources.CustomerInput, bool) {
	for _, c := range list {
		if string(c.ID) == id {
			return resources.CustomerInput{Name: c.Name, NIC: c.NIC, ContactNo: c.ContactNo, Address: c.Address}, true
		}
	}
	return resources.CustomerInput{}, false
}
