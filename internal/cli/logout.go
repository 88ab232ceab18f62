package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Long:  "Remove the persisted token, profile and local cart state. Safe to run when not logged in.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sess.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sess.IsAuthenticated(cmd.Context()) {
				fmt.Println("Not logged in.")
				return nil
			}
			user := sess.CurrentUser(cmd.Context())
			if user == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			if user.IsAdmin() {
				fmt.Println("Role: admin")
			}
			return nil
		},
	}
}
