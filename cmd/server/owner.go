package main

import (
	"fmt"
	"strings"

	"github.com/intlakaa/internal/storage"
	"github.com/spf13/cobra"
)

var createOwnerCmd = &cobra.Command{
	Use:   "create-owner",
	Short: "Create or promote an owner account",
	Long:  `Create an owner with the given e-mail and password, or promote an existing account with that e-mail. An existing password is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		email = strings.TrimSpace(email)
		if len(password) < 6 {
			return fmt.Errorf("password must be at least 6 characters")
		}

		_, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer db.Close()

		if err := db.RunMigrations(cmd.Context()); err != nil {
			return err
		}
		return ensureOwner(cmd.Context(), storage.NewUserRepository(db), email, password, logger)
	},
}

func init() {
	createOwnerCmd.Flags().String("email", "", "Owner e-mail address")
	createOwnerCmd.Flags().String("password", "", "Initial password (kept if the account already has one)")
	_ = createOwnerCmd.MarkFlagRequired("email")
	_ = createOwnerCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createOwnerCmd)
}
