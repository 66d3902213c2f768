package main

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"github.com/kernelbot/hypercorn/dataset"
)

func ptr[T any](v T) *T { return &v }

// writeDatasetFixture writes a small parquet dataset and returns its path.
func writeDatasetFixture(t *testing.T, n int) string {
	t.Helper()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	subs := make([]dataset.Submission, 0, n)
	for i := range n {
		id := int64(i + 1)
		subs = append(subs, dataset.Submission{
			SubmissionID:   id,
			LeaderboardID:  7,
			UserID:         100 + id,
			SubmissionTime: base.Add(time.Duration(id) * time.Minute),
			FileName:       fmt.Sprintf("kernel_%d.py", id),
			Code:           []byte(fmt.Sprintf("print(%d)", id)),
			CodeID:         1000 + id,
			RunID:          2000 + id,
			RunScore:       ptr(float64(id) / 10.0),
			RunPassed:      ptr(id%2 == 0),
		})
	}

	path := filepath.Join(t.TempDir(), "submissions.parquet")
	require.NoError(t, parquet.WriteFile(path, subs))
	return path
}
