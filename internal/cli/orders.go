package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/gamestore/pkg/model"
	"github.com/me/gamestore/pkg/storefront"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, false); err != nil {
				return err
			}

			// Local pre-check: an empty cart never reaches the backend.
			if err := cartSync.LoadFromServer(ctx); err != nil {
				return err
			}
			if cartSync.TotalItems() == 0 {
				return fmt.Errorf("your cart is empty: add games before checking out")
			}

			order, err := client.Checkout(ctx)
			if err != nil {
				return err
			}

			// The cart now lives in the order; drop the local copy.
			if err := cartSync.LoadFromServer(ctx); err != nil {
				logger.Warn("reloading cart after checkout failed", "error", err)
			}

			fmt.Printf("Order #%d placed: %d item(s), total %s\n",
				order.ID, len(order.Items), formatPrice(order.TotalAmount.Float64()))
			return nil
		},
	}
}

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "View your order history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listOrders(cmd)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your orders",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listOrders(cmd)
			},
		},
		newOrdersShowCmd(),
	)
	return cmd
}

func listOrders(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if err := requireAccess(ctx, false); err != nil {
		return err
	}

	orders, err := client.ListOrders(ctx)
	if err != nil {
		return err
	}
	printOrders(orders, false)
	return nil
}

func newOrdersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, false); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			order, err := client.GetOrder(ctx, id)
			if err != nil {
				if storefront.IsNotFound(err) {
					return fmt.Errorf("order %d not found", id)
				}
				return err
			}

			fmt.Printf("Order #%d (%s), placed %s\n", order.ID, order.Status, humanize.Time(order.OrderDate))
			for _, item := range order.Items {
				fmt.Printf("  %dx %-40s %s\n", item.Quantity.Int(), item.GameTitle, formatPrice(item.Subtotal.Float64()))
			}
			fmt.Printf("Total: %s\n", formatPrice(order.TotalAmount.Float64()))
			return nil
		},
	}
}

func printOrders(orders []model.Order, withUser bool) {
	if len(orders) == 0 {
		fmt.Println("No orders found.")
		return
	}

	if withUser {
		fmt.Printf("%-8s  %-12s  %-20s  %-10s  %s\n", "ID", "STATUS", "USER", "TOTAL", "PLACED")
		fmt.Printf("%-8s  %-12s  %-20s  %-10s  %s\n", "--", "------", "----", "-----", "------")
		for _, o := range orders {
			fmt.Printf("%-8d  %-12s  %-20s  %-10s  %s\n",
				o.ID, o.Status, o.UserName, formatPrice(o.TotalAmount.Float64()), humanize.Time(o.OrderDate))
		}
		return
	}

	fmt.Printf("%-8s  %-12s  %-10s  %s\n", "ID", "STATUS", "TOTAL", "PLACED")
	fmt.Printf("%-8s  %-12s  %-10s  %s\n", "--", "------", "-----", "------")
	for _, o := range orders {
		fmt.Printf("%-8d  %-12s  %-10s  %s\n",
			o.ID, o.Status, formatPrice(o.TotalAmount.Float64()), humanize.Time(o.OrderDate))
	}
}
