package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/internal/remote"
)

func newFetchCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a remote dataset into the local cache",
		Long: `Download a remote dataset into the local download cache.

Accepts azblob://account/container/blob references and Azure blob HTTPS
URLs. Downloads are cached by URL, so fetching the same dataset twice
reuses the local copy. Authentication uses the default Azure credential
chain (environment, managed identity, az login).

Prints the local path of the downloaded file, which every other command
also accepts as a dataset argument.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Download directory (default from .hypercorn.yaml)")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string, dir string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cfg.Fetch.Dir
	}

	fetcher := remote.NewBlobFetcher(dir)
	path, err := fetcher.Fetch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching %s: %w", args[0], err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), path) //nolint:errcheck
	return nil
}
