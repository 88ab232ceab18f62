package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/gamestore/pkg/model"
)

func newRegisterCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new store account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = promptLine("Username: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = promptLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptLine("Password: "); err != nil {
					return err
				}
			}
			if username == "" || email == "" || password == "" {
				return fmt.Errorf("username, email and password are required")
			}

			user, err := sess.Register(cmd.Context(), &model.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Account created. Logged in as %s <%s>\n", user.Username, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Desired username (prompted if omitted)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted if omitted)")
	return cmd
}
