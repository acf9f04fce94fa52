package main

import (
	"github.com/dogwatch-dev/dogwatch/db"
	"github.com/dogwatch-dev/dogwatch/internal/catalog"
	"github.com/dogwatch-dev/dogwatch/internal/config"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	var syncCatalog bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the database to the default breeds and admin account",
		Long: `Delete every dog, user and breed, then insert the default breed list
and the admin account. With --sync-catalog, breed api ids are filled in from
TheDogAPI.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, syncCatalog)
		},
	}

	cmd.Flags().BoolVar(&syncCatalog, "sync-catalog", false, "fill breed api ids from TheDogAPI")

	return cmd
}

func runSeed(cmd *cobra.Command, syncCatalog bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	opts := db.SeedOptions{Logger: logger}
	if syncCatalog {
		opts.Catalog = catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey)
	}

	cmd.Println("Seeding database...")
	if err := db.Seed(cmd.Context(), conn, opts); err != nil {
		return oops.Code("SEED_FAILED").With("operation", "seed database").Wrap(err)
	}

	cmd.Println("Seed completed successfully")
	return nil
}
