package main

import (
	"fmt"
	"strings"

	"github.com/intlakaa/pkg/client"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the admin panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		email, _ := cmd.Flags().GetString("email")
		password := secret(cmd, "password", "Password")

		user, err := c.Auth.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Logged in as %s (%s)\n", user.Email, user.Role)
		hint(c.Session().State())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		c.Auth.Logout()
		fmt.Fprintln(stdout, "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the live account and its menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		user, err := c.Auth.CurrentUser(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(stdout, "%s\t%s\t%s\n", user.Email, user.Role, c.Session().State())
		for _, item := range client.Navigation(user.Role) {
			fmt.Fprintf(stdout, "  %-14s %s\n", item.Key, item.Path)
		}
		hint(c.Session().State())
		return nil
	},
}

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change the password of the logged-in account",
	Long:  `Change the password. Every session of the account is revoked, including this one, so log in again afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		current := secret(cmd, "current", "Current password")
		next := secret(cmd, "new", "New password")
		confirmation := secret(cmd, "confirm", "Repeat new password")

		if err := c.Auth.ChangePassword(cmd.Context(), current, next, confirmation); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Password changed. Log in again with the new password.")
		return nil
	},
}

var acceptInviteCmd = &cobra.Command{
	Use:   "accept-invite <token>",
	Short: "Set a password for an invited account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		password := secret(cmd, "password", "New password")

		user, err := c.Auth.AcceptInvite(cmd.Context(), inviteToken(args[0]), password)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Welcome %s, you are logged in\n", user.Email)
		return nil
	},
}

// inviteToken accepts either the bare token or the whole accept link.
func inviteToken(arg string) string {
	if _, rest, ok := strings.Cut(arg, "token="); ok {
		token, _, _ := strings.Cut(rest, "&")
		return token
	}
	return arg
}

func hint(state client.AuthState) {
	d := client.Guard(state, "/admin")
	if d.Action == client.GuardRedirect && d.Location == client.ChangePasswordPath {
		fmt.Fprintln(stdout, "A password change is required: run adminctl change-password")
	}
}

func init() {
	loginCmd.Flags().String("email", "", "Account e-mail")
	loginCmd.Flags().String("password", "", "Password (prompted when empty)")
	_ = loginCmd.MarkFlagRequired("email")

	changePasswordCmd.Flags().String("current", "", "Current password")
	changePasswordCmd.Flags().String("new", "", "New password")
	changePasswordCmd.Flags().String("confirm", "", "New password again")

	acceptInviteCmd.Flags().String("password", "", "New password (prompted when empty)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, changePasswordCmd, acceptInviteCmd)
}
