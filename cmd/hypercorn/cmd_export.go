package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/dataset"
	"github.com/kernelbot/hypercorn/internal/export"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [dataset] <output>",
		Short: "Export a dataset to JSON, JSONL, or CSV",
		Long: `Export every row of a dataset to an interchange format.

The output file extension selects the format: .json writes a single JSON
array, .jsonl writes newline-delimited JSON, and .csv writes CSV with a
header row. A trailing .zst compresses the payload with zstd, e.g.
submissions.jsonl.zst.

With one argument, the dataset comes from dataset.path in .hypercorn.yaml
and the argument names the output file.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runExport,
	}

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	var datasetArgs []string
	output := args[len(args)-1]
	if len(args) == 2 {
		datasetArgs = args[:1]
	}

	ds, _, err := openDataset(cmd, datasetArgs, 0, false)
	if err != nil {
		return err
	}

	rows := make([]dataset.Row, ds.Len())
	for i := range rows {
		rows[i] = ds.Row(i)
	}

	if err := export.Write(output, ds.Columns(), rows); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s rows to %s\n", //nolint:errcheck
		numPrinter.Sprintf("%d", len(rows)), output)
	return nil
}
