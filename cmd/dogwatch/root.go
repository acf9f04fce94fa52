package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the dogwatch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dogwatch",
		Short: "Dogwatch - dog adoption listings API",
		Long: `Dogwatch serves the adoption listings API: shelter accounts,
breeds, and the dogs they put up for adoption.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
