package service

import (
	"context"
	"fmt"

	"toyblog/app/models"

	"github.com/spf13/cobra"
)

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	roleCmd := func(use, short string, role models.Role) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <email>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := NewApp(cmd.Context(), c.cfg, c.log)
				if err != nil {
					return err
				}
				defer app.Close(context.Background())

				user, err := app.Accounts.SetRoleByEmail(cmd.Context(), args[0], role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
				return nil
			},
		}
	}

	cmd.AddCommand(
		roleCmd("promote", "Grant the admin role", models.RoleAdmin),
		roleCmd("demote", "Revoke the admin role", models.RoleUser),
	)
	return cmd
}
