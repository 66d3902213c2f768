package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/dataset"
	"github.com/kernelbot/hypercorn/internal/stats"
)

func newStatsCommand() *cobra.Command {
	var seed int64
	var format string

	cmd := &cobra.Command{
		Use:   "stats [dataset]",
		Short: "Summarize run scores across a dataset",
		Long: `Summarize run scores across all submissions in a dataset.

Reports pass rate, mean, standard deviation, percentiles, and a bootstrap
95% confidence interval over the mean. Rows without a recorded run score
count toward the row total but not the score distribution.

Pass --seed to make the bootstrap resampling reproducible.

If no dataset is specified, dataset.path from .hypercorn.yaml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, seed, format)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", -1, "Bootstrap seed for reproducible confidence intervals (-1 = random)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text | json")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, seed int64, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	ds, _, err := openDataset(cmd, args, seed, false)
	if err != nil {
		return err
	}

	subs := make([]dataset.Submission, 0, ds.Len())
	for sub, err := range ds.All() {
		if err != nil {
			return fmt.Errorf("decoding submissions: %w", err)
		}
		subs = append(subs, sub)
	}
	s := stats.Summarize(subs, seed)

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

	writeScoreReport(cmd.OutOrStdout(), s)
	return nil
}
