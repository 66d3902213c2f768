package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/internal/cache"
	"github.com/kernelbot/hypercorn/internal/projectconfig"
	"github.com/kernelbot/hypercorn/internal/summary"
)

func newInfoCommand() *cobra.Command {
	var noCache bool
	var format string

	cmd := &cobra.Command{
		Use:   "info [dataset]",
		Short: "Show a profile of a submission dataset",
		Long: `Show a profile of a submission dataset: row count, per-column null
counts, and the run score distribution.

Profiles are cached on disk keyed by the dataset file's path, size, and
modification time, so repeated invocations do not rescan large files.
Use --no-cache to force a rescan.

If no dataset is specified, dataset.path from .hypercorn.yaml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args, noCache, format)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Recompute the profile even if a cached one exists")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text | json")

	return cmd
}

func runInfo(cmd *cobra.Command, args []string, noCache bool, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	ds, cfg, err := openDataset(cmd, args, 0, false)
	if err != nil {
		return err
	}

	cacheDir := cfg.Cache.Dir
	if noCache || (cfg.Cache.Enabled != nil && !*cfg.Cache.Enabled) {
		cacheDir = ""
	}
	c := cache.New(cacheDir)

	var s *summary.DatasetSummary
	key, keyErr := cache.Key(ds.Path())
	if keyErr == nil {
		if cached, ok := c.Get(key); ok {
			slog.Debug("using cached dataset profile", "path", ds.Path())
			s = cached
		}
	}

	if s == nil {
		seed := projectconfig.DefaultSeed
		if cfg.Sample.Seed != nil {
			seed = *cfg.Sample.Seed
		}
		s, err = summary.Compute(cmd.Context(), ds, seed)
		if err != nil {
			return fmt.Errorf("profiling dataset: %w", err)
		}
		if keyErr == nil {
			if err := c.Put(key, s); err != nil {
				slog.Debug("caching dataset profile failed", "error", err)
			}
		}
	}

	if format == "json" {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
		return err
	}

	writeSummaryReport(cmd.OutOrStdout(), s)
	return nil
}
