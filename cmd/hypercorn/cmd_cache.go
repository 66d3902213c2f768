package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/internal/cache"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the dataset profile cache",
		Long: `Manage the dataset profile cache.

The cache stores computed dataset profiles so large parquet files are not
rescanned on every info invocation. Entries are keyed by the dataset
file's path, size, and modification time.`,
	}

	cmd.AddCommand(newCacheClearCommand())

	return cmd
}

func newCacheClearCommand() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the dataset profile cache",
		Long: `Clear all cached dataset profiles.

This removes all cached profiles. The next info invocation will rescan
the dataset from scratch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cacheClearE(cmd, cacheDir)
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory to clear (default from .hypercorn.yaml)")

	return cmd
}

func cacheClearE(cmd *cobra.Command, cacheDir string) error {
	if cacheDir == "" {
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}
		cacheDir = cfg.Cache.Dir
	}

	// Resolve to absolute path
	absDir, err := filepath.Abs(cacheDir)
	if err != nil {
		return fmt.Errorf("resolving cache directory: %w", err)
	}

	c := cache.New(absDir)
	if err := c.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", absDir) //nolint:errcheck
	return nil
}
