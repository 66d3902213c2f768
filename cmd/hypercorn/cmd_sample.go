package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/internal/export"
)

func newSampleCommand() *cobra.Command {
	var (
		count       int
		seed        int64
		replacement bool
		format      string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "sample [dataset]",
		Short: "Draw a random batch of submissions",
		Long: `Draw a random batch of submissions from a dataset.

Batches are drawn without replacement by default, so a single batch never
contains the same row twice. A count larger than the dataset is clamped to
the full dataset.

The batch is written to stdout as newline-delimited JSON, or to --output,
where the file extension selects the format (.json, .jsonl, or .csv, each
optionally with a .zst suffix for zstd compression).

If no dataset is specified, dataset.path from .hypercorn.yaml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(cmd, args, count, seed, replacement, format, output)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Batch size (default from .hypercorn.yaml)")
	cmd.Flags().Int64Var(&seed, "seed", -1, "Sampling seed for reproducible batches (-1 = random)")
	cmd.Flags().BoolVar(&replacement, "with-replacement", false, "Sample with replacement (allows duplicates)")
	cmd.Flags().StringVar(&format, "format", "jsonl", "Stdout format: json | jsonl | csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the batch to a file instead of stdout")

	return cmd
}

func runSample(cmd *cobra.Command, args []string, count int, seed int64, replacement bool, format, output string) error {
	ds, cfg, err := openDataset(cmd, args, seed, replacement)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("count") {
		count = cfg.Sample.BatchSize
	}

	batch, err := ds.Sample(count)
	if err != nil {
		return fmt.Errorf("sampling: %w", err)
	}

	if output != "" {
		if err := export.Write(output, ds.Columns(), batch); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(batch), output) //nolint:errcheck
		return nil
	}

	return export.WriteTo(cmd.OutOrStdout(), export.Format(format), ds.Columns(), batch)
}
