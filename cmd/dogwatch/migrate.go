package main

import (
	"github.com/dogwatch-dev/dogwatch/internal/config"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing database tables",
		Long:  `Create the users, breeds and dogs tables in the PostgreSQL database if they do not exist.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	newLogger(cfg)

	cmd.Println("Running migrations...")
	if _, err := openDatabase(cfg); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
