package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/gamestore/pkg/model"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse the catalog",
	}
	cmd.AddCommand(newGamesListCmd(), newGamesShowCmd(), newGamesSearchCmd())
	return cmd
}

func newGamesListCmd() *cobra.Command {
	var genre, platform string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games, optionally filtered by genre or platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				games []model.Game
				err   error
			)
			switch {
			case genre != "":
				games, err = client.GamesByGenre(cmd.Context(), genre)
			case platform != "":
				games, err = client.GamesByPlatform(cmd.Context(), platform)
			default:
				games, err = client.ListGames(cmd.Context())
			}
			if err != nil {
				return err
			}

			printGames(games)
			return nil
		},
	}

	cmd.Flags().StringVar(&genre, "genre", "", "Filter by genre")
	cmd.Flags().StringVar(&platform, "platform", "", "Filter by platform")
	return cmd
}

func newGamesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}

			game, err := client.GetGame(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("%s (#%d)\n", game.Title, game.ID)
			if game.Developer != "" {
				fmt.Printf("Developer: %s\n", game.Developer)
			}
			if game.Publisher != "" {
				fmt.Printf("Publisher: %s\n", game.Publisher)
			}
			if game.Platform != "" {
				fmt.Printf("Platform:  %s\n", game.Platform)
			}
			if len(game.Genres) > 0 {
				fmt.Printf("Genres:    %s\n", strings.Join(game.Genres, ", "))
			}
			fmt.Printf("Price:     %s\n", formatPrice(game.EffectivePrice()))
			if game.Description != "" {
				fmt.Printf("\n%s\n", game.Description)
			}
			if cartSync.IsInCart(game.ID) {
				fmt.Println("\n(already in your cart)")
			}
			return nil
		},
	}
}

func newGamesSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search games by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := client.SearchGames(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printGames(games)
			return nil
		},
	}
}

func printGames(games []model.Game) {
	if len(games) == 0 {
		fmt.Println("No games found.")
		return
	}

	fmt.Printf("%-6s  %-40s  %-12s  %s\n", "ID", "TITLE", "PLATFORM", "PRICE")
	fmt.Printf("%-6s  %-40s  %-12s  %s\n", "--", "-----", "--------", "-----")
	for _, g := range games {
		fmt.Printf("%-6d  %-40s  %-12s  %s\n", g.ID, g.Title, g.Platform, formatPrice(g.EffectivePrice()))
	}
}

// formatPrice renders a float price for display; this is the only place
// any rounding happens.
func formatPrice(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}
