// Package summary profiles a loaded dataset: row counts, per-column null
// counts, and the run score distribution. Summaries are cheap to serve once
// computed and are cached on disk by internal/cache.
package summary

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kernelbot/hypercorn/dataset"
	"github.com/kernelbot/hypercorn/internal/stats"
)

// ColumnSummary profiles a single top-level column.
type ColumnSummary struct {
	Name      string `json:"name"`
	NullCount int    `json:"null_count"`
}

// DatasetSummary is the full profile of one dataset file.
type DatasetSummary struct {
	Path     string             `json:"path"`
	RowCount int                `json:"row_count"`
	Columns  []ColumnSummary    `json:"columns"`
	Scores   stats.ScoreSummary `json:"scores"`
}

// Compute profiles the dataset. Column profiles run concurrently, one
// goroutine per column; the dataset is immutable after load so no locking
// is needed. seed feeds the bootstrap CI in the score summary.
func Compute(ctx context.Context, d *dataset.Dataset, seed int64) (*DatasetSummary, error) {
	columns := d.Columns()
	s := &DatasetSummary{
		Path:     d.Path(),
		RowCount: d.Len(),
		Columns:  make([]ColumnSummary, len(columns)),
	}

	g, _ := errgroup.WithContext(ctx)

	for i, name := range columns {
		g.Go(func() error {
			nulls := 0
			for j := 0; j < d.Len(); j++ {
				if v, ok := d.Row(j)[name]; !ok || v == nil {
					nulls++
				}
			}
			s.Columns[i] = ColumnSummary{Name: name, NullCount: nulls}
			return nil
		})
	}

	g.Go(func() error {
		subs := make([]dataset.Submission, 0, d.Len())
		for sub, err := range d.All() {
			if err != nil {
				return err
			}
			subs = append(subs, sub)
		}
		s.Scores = stats.Summarize(subs, seed)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}
