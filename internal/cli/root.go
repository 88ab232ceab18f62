// Package cli implements the gamestore command tree. Commands talk to
// the storefront backend through the shared client and keep session and
// cart state in the local store between runs.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/gamestore/internal/cart"
	"github.com/me/gamestore/internal/config"
	"github.com/me/gamestore/internal/guard"
	"github.com/me/gamestore/internal/logging"
	"github.com/me/gamestore/internal/session"
	"github.com/me/gamestore/internal/store"
	"github.com/me/gamestore/pkg/storefront"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string
	flagStateDir  string

	logger   *slog.Logger
	client   *storefront.Client
	sess     *session.Manager
	cartSync *cart.Synchronizer
	state    store.Store
)

// NewRootCmd creates the root cobra command for the gamestore CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gamestore",
		Short: "gamestore is a storefront client for the game store API",
		Long:  "gamestore browses the catalog, manages your cart and places orders against a game store backend.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") || cfg.ServerURL == "" {
				cfg.ServerURL = flagServer
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = flagLogLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = flagLogFormat
			}
			if flagStateDir != "" {
				cfg.StateDir = flagStateDir
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}

			logger = logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

			dbPath, err := cfg.StatePath()
			if err != nil {
				return err
			}
			st, err := store.NewSQLiteStore(dbPath, logger)
			if err != nil {
				return fmt.Errorf("open state store: %w", err)
			}
			if err := st.Migrate(cmd.Context()); err != nil {
				st.Close()
				return fmt.Errorf("migrate state store: %w", err)
			}
			state = st

			client = storefront.NewClient(
				storefront.DefaultConfig().WithBaseURL(cfg.ServerURL),
				logger,
			)
			sess = session.NewManager(client, state, logger)
			cartSync = cart.NewSynchronizer(client, sess, state, logger)
			sess.OnLogout(cartSync.Reset)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state != nil {
				state.Close()
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8080", "Storefront server URL (or GAMESTORE_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	root.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "Local state directory (default ~/.gamestore)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newGamesCmd(),
		newCartCmd(),
		newCheckoutCmd(),
		newOrdersCmd(),
		newAdminCmd(),
	)

	return root
}

// requireAccess maps the guard's decision onto CLI errors: the command
// aborts instead of the browser's redirect.
func requireAccess(ctx context.Context, requireAdmin bool) error {
	switch guard.Check(ctx, sess, requireAdmin) {
	case guard.RedirectLogin:
		return fmt.Errorf("you are not logged in: run 'gamestore login' first")
	case guard.RedirectHome:
		return fmt.Errorf("this command requires admin privileges")
	default:
		return nil
	}
}
