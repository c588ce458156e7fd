package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogem/caseledger/models"
)

// NewUserCommand creates the user command group.
func NewUserCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}
	cmd.AddCommand(newUserAddCommand(root))
	return cmd
}

func newUserAddCommand(root *RootOptions) *cobra.Command {
	form := &models.UserForm{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := root.openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.Services.Auth.CreateUser(cmd.Context(), form)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", user.Username, user.Role, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Username, "username", "", "login name")
	cmd.Flags().StringVar(&form.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&form.Email, "email", "", "email used for single sign-on")
	cmd.Flags().StringVar(&form.Role, "role", string(models.RoleUser), "admin or user")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
