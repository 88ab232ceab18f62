package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/gamestore/pkg/model"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog and order administration",
	}

	games := &cobra.Command{
		Use:   "games",
		Short: "Manage the catalog",
	}
	games.AddCommand(newAdminGameAddCmd(), newAdminGameUpdateCmd(), newAdminGameDeleteCmd())

	orders := &cobra.Command{
		Use:   "orders",
		Short: "Manage orders",
	}
	orders.AddCommand(newAdminOrdersListCmd(), newAdminOrderStatusCmd())

	cmd.AddCommand(games, orders)
	return cmd
}

// gameFlags binds the editable catalog fields to a command.
func gameFlags(cmd *cobra.Command, g *model.Game) {
	cmd.Flags().StringVar(&g.Title, "title", "", "Game title")
	cmd.Flags().StringVar(&g.Description, "description", "", "Game description")
	cmd.Flags().StringVar(&g.Developer, "developer", "", "Developer name")
	cmd.Flags().StringVar(&g.Publisher, "publisher", "", "Publisher name")
	cmd.Flags().StringVar(&g.Platform, "platform", "", "Platform")
	cmd.Flags().StringSliceVar(&g.Genres, "genre", nil, "Genre (repeatable)")
	cmd.Flags().StringVar(&g.ImageURL, "image-url", "", "Cover image URL")
	cmd.Flags().Float64Var((*float64)(&g.Price), "price", 0, "Price")
	cmd.Flags().Float64Var((*float64)(&g.DiscountPrice), "discount-price", 0, "Discounted price")
}

func newAdminGameAddCmd() *cobra.Command {
	var game model.Game

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a game to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, true); err != nil {
				return err
			}
			if game.Title == "" {
				return fmt.Errorf("--title is required")
			}

			created, err := client.CreateGame(ctx, &game)
			if err != nil {
				return err
			}
			fmt.Printf("Created game #%d %q\n", created.ID, created.Title)
			return nil
		},
	}
	gameFlags(cmd, &game)
	return cmd
}

func newAdminGameUpdateCmd() *cobra.Command {
	var game model.Game

	cmd := &cobra.Command{
		Use:   "update <game-id>",
		Short: "Replace a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, true); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}

			updated, err := client.UpdateGame(ctx, id, &game)
			if err != nil {
				return err
			}
			fmt.Printf("Updated game #%d %q\n", updated.ID, updated.Title)
			return nil
		},
	}
	gameFlags(cmd, &game)
	return cmd
}

func newAdminGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Remove a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, true); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}

			if err := client.DeleteGame(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Deleted game #%d\n", id)
			return nil
		},
	}
}

func newAdminOrdersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all orders in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, true); err != nil {
				return err
			}

			orders, err := client.ListAllOrders(ctx)
			if err != nil {
				return err
			}
			printOrders(orders, true)
			return nil
		},
	}
}

func newAdminOrderStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Set an order's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := requireAccess(ctx, true); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			order, err := client.UpdateOrderStatus(ctx, id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Order #%d is now %s\n", order.ID, order.Status)
			return nil
		},
	}
}
