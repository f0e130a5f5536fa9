package main

import (
	"context"
	"fmt"
	"os"

	"github.com/intlakaa/internal/config"
	"github.com/intlakaa/internal/logging"
	"github.com/intlakaa/internal/storage"
	"github.com/spf13/cobra"
)

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:          "intlakaa",
	Short:        "Intlakaa backend",
	Long:         `Public lead form, admin panel API and SEO-aware site server for Intlakaa. Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// Execute is called by main.main. It only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and opens the database.
// The caller owns closing the database and syncing the logger.
func bootstrap() (*config.Config, *logging.Logger, *storage.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := storage.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Sync()
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func ensureOwner(ctx context.Context, users *storage.UserRepository, email, password string, logger *logging.Logger) error {
	owner, err := users.EnsureOwner(ctx, email, password)
	if err != nil {
		return fmt.Errorf("failed to ensure owner %s: %w", email, err)
	}
	logger.Infow("owner account ready", "email", owner.Email, "id", owner.ID)
	return nil
}
