package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/gamestore/internal/cart"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage your shopping cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCart(cmd)
		},
	}
	cmd.AddCommand(
		newCartShowCmd(),
		newCartAddCmd(),
		newCartUpdateCmd(),
		newCartRemoveCmd(),
		newCartClearCmd(),
	)
	return cmd
}

func newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCart(cmd)
		},
	}
}

func showCart(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if err := requireAccess(ctx, false); err != nil {
		return err
	}
	if err := cartSync.LoadFromServer(ctx); err != nil {
		return err
	}

	items := cartSync.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty.")
		return nil
	}

	fmt.Printf("%-6s  %-40s  %-12s  %-4s  %s\n", "ITEM", "TITLE", "PLATFORM", "QTY", "SUBTOTAL")
	fmt.Printf("%-6s  %-40s  %-12s  %-4s  %s\n", "----", "-----", "--------", "---", "--------")
	for _, item := range items {
		fmt.Printf("%-6d  %-40s  %-12s  %-4d  %s\n",
			item.ID, item.Title, item.Platform, item.Quantity, formatPrice(item.Subtotal()))
	}
	fmt.Printf("\n%d item(s), total %s\n", cartSync.TotalItems(), formatPrice(cartSync.TotalPrice()))
	return nil
}

func newCartAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <game-id>",
		Short: "Add a game to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, false); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}

			game, err := client.GetGame(ctx, id)
			if err != nil {
				return err
			}
			if err := cartSync.Add(ctx, game); err != nil {
				return err
			}

			fmt.Printf("Added %q to cart (%d item(s) total).\n", game.Title, cartSync.TotalItems())
			return nil
		},
	}
}

func newCartUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <item-id> <quantity>",
		Short: "Change the quantity of a cart line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, false); err != nil {
				return err
			}

			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			if err := cartSync.LoadFromServer(ctx); err != nil {
				return err
			}
			if err := cartSync.UpdateQuantity(ctx, itemID, qty); err != nil {
				return err
			}

			if qty <= 0 {
				fmt.Printf("Removed item %d from cart.\n", itemID)
			} else {
				fmt.Printf("Set item %d to quantity %d.\n", itemID, qty)
			}
			return nil
		},
	}
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, false); err != nil {
				return err
			}

			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			if err := cartSync.LoadFromServer(ctx); err != nil {
				return err
			}
			if err := cartSync.Remove(ctx, itemID); err != nil {
				return err
			}

			fmt.Printf("Removed item %d from cart.\n", itemID)
			return nil
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, false); err != nil {
				return err
			}

			err := cartSync.Clear(ctx)
			var remoteErr *cart.RemoteClearError
			if errors.As(err, &remoteErr) {
				// Local cart is empty either way; the remote failure is
				// a warning, not a command failure.
				fmt.Printf("Cart cleared locally. Warning: %v\n", remoteErr.Err)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Println("Cart cleared.")
			return nil
		},
	}
}
