package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hypercorn",
		Short: "Hypercorn - CLI tool for competition submission datasets",
		Long: `Hypercorn is a command-line tool for working with competition
submission datasets.

It loads columnar submission dumps (parquet or CSV), draws random batches,
profiles run scores, validates rows against the submission schema, and
serves datasets over HTTP.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newInfoCommand())
	cmd.AddCommand(newSampleCommand())
	cmd.AddCommand(newStatsCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newFetchCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newCacheCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
