package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kernelbot/hypercorn/dataset"
	"github.com/kernelbot/hypercorn/internal/validation"
)

func newCheckCommand() *cobra.Command {
	var schemaPath string
	var maxErrors int

	cmd := &cobra.Command{
		Use:   "check [dataset]",
		Short: "Validate dataset rows against the submission schema",
		Long: `Validate every row of a dataset against the submission schema.

By default rows are checked against the built-in submission schema. Use
--schema to validate against a custom JSON Schema file instead.

Exits with code 1 when any row fails validation, so the command can gate
dataset publication in CI.

If no dataset is specified, dataset.path from .hypercorn.yaml is used.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasetCheck(cmd, args, schemaPath, maxErrors)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "Validate against a custom JSON Schema file")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 20, "Maximum number of failing rows to report")

	return cmd
}

func runDatasetCheck(cmd *cobra.Command, args []string, schemaPath string, maxErrors int) error {
	ds, _, err := openDataset(cmd, args, 0, false)
	if err != nil {
		return err
	}

	sch := validation.SubmissionSchema()
	if schemaPath != "" {
		sch, err = validation.CompileFile(schemaPath)
		if err != nil {
			return err
		}
	}

	rows := make([]dataset.Row, ds.Len())
	for i := range rows {
		rows[i] = ds.Row(i)
	}

	failures, err := validation.ValidateRows(sch, rows)
	if err != nil {
		return fmt.Errorf("validating rows: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(failures) == 0 {
		fmt.Fprintf(w, "✅ All %s rows valid\n", numPrinter.Sprintf("%d", len(rows))) //nolint:errcheck
		return nil
	}

	// Report failing rows in index order, capped at maxErrors.
	indices := make([]int, 0, len(failures))
	for i := range failures {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	if len(indices) > maxErrors {
		indices = indices[:maxErrors]
	}

	fmt.Fprintf(w, "❌ %s of %s rows failed validation\n\n", //nolint:errcheck
		numPrinter.Sprintf("%d", len(failures)), numPrinter.Sprintf("%d", len(rows)))
	for _, i := range indices {
		fmt.Fprintf(w, "Row %d:\n", i) //nolint:errcheck
		for _, msg := range failures[i] {
			fmt.Fprintf(w, "   ❌  %s\n", msg) //nolint:errcheck
		}
	}
	if len(failures) > maxErrors {
		fmt.Fprintf(w, "\n... and %d more failing rows\n", len(failures)-maxErrors) //nolint:errcheck
	}

	return &CheckFailureError{
		Message: fmt.Sprintf("%d of %d rows failed validation", len(failures), len(rows)),
	}
}
