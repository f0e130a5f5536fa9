package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// migrateCmd performs DB migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|version] [target]",
	Short: "Run database migrations",
	Long:  `Apply, roll back or inspect the embedded database migrations. Without arguments all pending migrations are applied.`,
	Args:  migrateArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) > 0 {
			command = args[0]
		}

		_, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer db.Close()

		if len(args) == 2 {
			command += "-to"
		}
		if err := db.Migrate(cmd.Context(), command, args[min(1, len(args)):]...); err != nil {
			return err
		}
		logger.Infow("migration finished", "command", command)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(0, 2)(cmd, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "up", "down", "status", "version":
	default:
		return fmt.Errorf("invalid migrate command: %q", args[0])
	}

	if len(args) == 2 {
		if args[0] != "up" && args[0] != "down" {
			return fmt.Errorf("%s does not take a target version", args[0])
		}
		if v, err := strconv.ParseInt(args[1], 10, 64); err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %q", args[1])
		}
	}
	return nil
}
