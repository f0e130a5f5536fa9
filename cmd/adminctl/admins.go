package main

import (
	"fmt"
	"io"
	"time"

	"github.com/intlakaa/pkg/client"
	"github.com/spf13/cobra"
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage admin accounts (changes are owner only)",
}

var adminsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admin accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		users, err := c.Users.List(cmd.Context())
		if err != nil {
			return err
		}

		printAdmins(stdout, users)
		return nil
	},
}

func printAdmins(w io.Writer, users []client.User) {
	t := newTable(w, []string{"ID", "Email", "Role", "Status", "Last sign-in"})
	for _, u := range users {
		status := "active"
		if u.MustChangePassword {
			status = "pending"
		}
		last := "-"
		if u.LastSignInAt != nil {
			last = u.LastSignInAt.Format(time.DateTime)
		}
		t.AddRow([]string{u.ID, u.Email, string(u.Role), status, last})
	}
	t.Render()
}

var adminsInviteCmd = &cobra.Command{
	Use:   "invite <email>",
	Short: "Invite a new admin by e-mail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		user, err := c.Users.Invite(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Invitation sent to %s\n", user.Email)
		return nil
	},
}

var adminsRoleCmd = &cobra.Command{
	Use:       "role <id> <owner|admin>",
	Short:     "Change the role of an account",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(client.RoleOwner), string(client.RoleAdmin)},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		user, err := c.Users.UpdateRole(cmd.Context(), args[0], client.Role(args[1]))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s is now %s\n", user.Email, user.Role)
		return nil
	},
}

var adminsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		if err := c.Users.Delete(cmd.Context(), args[0], confirm()); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Account deleted")
		return nil
	},
}

func init() {
	adminsCmd.AddCommand(adminsListCmd, adminsInviteCmd, adminsRoleCmd, adminsDeleteCmd)
	rootCmd.AddCommand(adminsCmd)
}
