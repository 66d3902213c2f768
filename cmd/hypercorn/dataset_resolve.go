package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/dataset"
	"github.com/kernelbot/hypercorn/internal/projectconfig"
	"github.com/kernelbot/hypercorn/internal/remote"
)

// loadProjectConfig loads .hypercorn.yaml by walking up from the working
// directory, falling back to defaults when no file exists.
func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return projectconfig.Load(wd)
}

// resolveDatasetPath turns a dataset reference into a local file path.
// The reference comes from the positional argument, or dataset.path in the
// project config when no argument was given. Remote references (azblob://
// or Azure blob HTTPS URLs) are downloaded into the fetch cache first.
func resolveDatasetPath(ctx context.Context, ref string, cfg *projectconfig.ProjectConfig) (string, error) {
	if ref == "" {
		ref = cfg.Dataset.Path
	}
	if ref == "" {
		return "", fmt.Errorf("no dataset specified: pass a path or set dataset.path in %s", projectconfig.ConfigFileName)
	}

	if remote.IsRemote(ref) {
		fetcher := remote.NewBlobFetcher(cfg.Fetch.Dir)
		path, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("fetching remote dataset: %w", err)
		}
		return path, nil
	}

	return ref, nil
}

// openDataset resolves and opens the dataset named by the first positional
// argument, applying sampling defaults from the project config. The --seed
// flag (when the command defines one and the user set it) overrides the
// configured seed.
func openDataset(cmd *cobra.Command, args []string, seedFlag int64, replacementFlag bool) (*dataset.Dataset, *projectconfig.ProjectConfig, error) {
	cfg, err := loadProjectConfig()
	if err != nil {
		return nil, nil, err
	}

	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	path, err := resolveDatasetPath(cmd.Context(), ref, cfg)
	if err != nil {
		return nil, nil, err
	}

	seed := projectconfig.DefaultSeed
	if cfg.Sample.Seed != nil {
		seed = *cfg.Sample.Seed
	}
	if cmd.Flags().Lookup("seed") != nil && cmd.Flags().Changed("seed") {
		seed = seedFlag
	}

	opts := []dataset.Option{dataset.WithSeed(seed)}
	if replacementFlag || (cfg.Sample.Replacement != nil && *cfg.Sample.Replacement) {
		opts = append(opts, dataset.WithReplacement())
	}

	ds, err := dataset.Open(path, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("opening dataset: %w", err)
	}
	return ds, cfg, nil
}
