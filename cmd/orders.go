// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	bizerrors "bizdesk/cli/internal/errors"
	"bizdesk/cli/internal/guard"
	"bizdesk/cli/internal/resources"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newOrdersCmd(a *App) *cobra.Command {
	cmd := guard.Protect(&cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "List and place orders",
	})

	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out resources.Orders
			err := a.withSpinner("Loading orders", func() (err error) {
				out, err = a.res.Orders(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			return a.render(out)
		},
	}

	var (
		customerID string
		lines      []string
	)
	create := &cobra.Command{
		Use:     "create",
		Short:   "Place an order",
		Example: `  bizdesk orders create --customer 3 --item 7:2 --item 9:1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseOrderLines(lines)
			if err != nil {
				return err
			}
			in := resources.OrderInput{CustomerID: customerID, Items: items}
			if err := a.res.CreateOrder(cmd.Context(), in); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Printfln("Order placed for customer %s (%d item lines)", customerID, len(items))
			return nil
		},
	}
	create.Flags().StringVar(&customerID, "customer", "", "Customer id")
	create.Flags().StringArrayVar(&lines, "item", nil, "Item line as <item-id>:<quantity>; repeat for more lines")

	cmd.AddCommand(list, create)
	return cmd
}

// parseOrderLines turns "<id>:<qty>" values into order lines. A missing
// quantity means one.
func parseOrderLines(values []string) ([]resources.OrderItemInput, error) {
	out := make([]resources.OrderItemInput, 0, len(values))
	for _, v := range values {
		id, qty, hasQty := strings.Cut(strings.TrimSpace(v), ":")
		n := int64(1)
		if hasQty {
			parsed, err := strconv.ParseInt(strings.TrimSpace(qty), 10, 64)
			if err != nil {
				return nil, bizerrors.New(bizerrors.Validation, fmt.Sprintf("invalid quantity in %q", v))
			}
			n = parsed
		}
		out = append(out, resources.OrderItemInput{ItemID: strings.TrimSpace(id), Quantity: n})
	}
	return out, nil
}
