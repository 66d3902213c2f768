package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func makeSubmission(id int64) Submission {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return Submission{
		SubmissionID:   id,
		LeaderboardID:  7,
		UserID:         100 + id,
		SubmissionTime: base.Add(time.Duration(id) * time.Minute),
		FileName:       fmt.Sprintf("kernel_%d.py", id),
		Code:           []byte(fmt.Sprintf("print(%d)", id)),
		CodeID:         1000 + id,
		RunID:          2000 + id,
		RunMode:        ptr("leaderboard"),
		RunScore:       ptr(float64(id) / 10.0),
		RunPassed:      ptr(id%2 == 0),
		RunMeta: &RunMeta{
			Command:  ptr("python kernel.py"),
			Duration: ptr(1.5),
			ExitCode: ptr(int64(0)),
			Success:  ptr(true),
		},
		RunSystemInfo: &RunSystemInfo{
			GPU:         ptr("NVIDIA A100"),
			Platform:    ptr("linux"),
			DeviceCount: ptr(int64(1)),
		},
	}
}

func writeFixture(t *testing.T, subs []Submission) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submissions.parquet")
	require.NoError(t, parquet.WriteFile(path, subs))
	return path
}

func fixtureSubmissions(n int) []Submission {
	subs := make([]Submission, 0, n)
	for i := range n {
		subs = append(subs, makeSubmission(int64(i+1)))
	}
	return subs
}

func TestOpen_RowCountMatchesSource(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(5))

	d, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, 5, d.Len())
	assert.Equal(t, path, d.Path())
	assert.Contains(t, d.Columns(), "submission_id")
	assert.Contains(t, d.Columns(), "run_meta")
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.parquet"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOpen_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.parquet")
	require.NoError(t, os.WriteFile(path, []byte("this is not a parquet file"), 0644))

	_, err := Open(path)
	require.Error(t, err)

	var formatErr *FormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Equal(t, path, formatErr.Path)
}

func TestSample_ExactBatchSize(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(6))
	d, err := Open(path, WithSeed(1))
	require.NoError(t, err)

	for batchSize := 1; batchSize <= d.Len(); batchSize++ {
		batch, err := d.Sample(batchSize)
		require.NoError(t, err)
		assert.Len(t, batch, batchSize)
	}
}

func TestSample_NoDuplicatesWithoutReplacement(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(10))
	d, err := Open(path, WithSeed(42))
	require.NoError(t, err)

	for range 20 {
		batch, err := d.Sample(7)
		require.NoError(t, err)

		seen := make(map[int64]bool)
		for _, row := range batch {
			id := row["submission_id"].(int64)
			assert.False(t, seen[id], "submission %d sampled twice in one batch", id)
			seen[id] = true
		}
	}
}

func TestSample_ClampsOversizedBatch(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(3))
	d, err := Open(path, WithSeed(7))
	require.NoError(t, err)

	batch, err := d.Sample(4)
	require.NoError(t, err)
	assert.Len(t, batch, 3)

	ids := make(map[int64]bool)
	for _, row := range batch {
		ids[row["submission_id"].(int64)] = true
	}
	assert.Equal(t, map[int64]bool{1: true, 2: true, 3: true}, ids)
}

func TestSample_SmallDatasetCoverage(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(3))
	d, err := Open(path, WithSeed(11))
	require.NoError(t, err)

	batch, err := d.Sample(2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.NotEqual(t, batch[0]["submission_id"], batch[1]["submission_id"])

	batch, err = d.Sample(3)
	require.NoError(t, err)
	ids := make(map[int64]bool)
	for _, row := range batch {
		ids[row["submission_id"].(int64)] = true
	}
	assert.Equal(t, map[int64]bool{1: true, 2: true, 3: true}, ids)
}

func TestSample_InvalidBatchSize(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(3))
	d, err := Open(path)
	require.NoError(t, err)

	for _, batchSize := range []int{0, -1} {
		_, err := d.Sample(batchSize)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	}
}

func TestSample_SeedIsReproducible(t *testing.T) {
	subs := fixtureSubmissions(20)
	path := writeFixture(t, subs)

	d1, err := Open(path, WithSeed(99))
	require.NoError(t, err)
	d2, err := Open(path, WithSeed(99))
	require.NoError(t, err)

	b1, err := d1.Sample(5)
	require.NoError(t, err)
	b2, err := d2.Sample(5)
	require.NoError(t, err)

	for i := range b1 {
		assert.Equal(t, b1[i]["submission_id"], b2[i]["submission_id"])
	}
}

func TestSample_WithReplacement(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(3))
	d, err := Open(path, WithSeed(5), WithReplacement())
	require.NoError(t, err)

	// With replacement, a batch larger than the dataset is legal.
	batch, err := d.Sample(10)
	require.NoError(t, err)
	assert.Len(t, batch, 10)

	for _, row := range batch {
		id := row["submission_id"].(int64)
		assert.True(t, id >= 1 && id <= 3)
	}
}

func TestSample_EmptyDataset(t *testing.T) {
	path := writeFixture(t, []Submission{makeSubmission(1)})
	d, err := Open(path)
	require.NoError(t, err)
	d.rows = nil

	batch, err := d.Sample(10)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestSample_ConcurrentCallers(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(10))
	d, err := Open(path, WithSeed(3))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = d.Sample(5)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestSampleSubmissions_TypedDecode(t *testing.T) {
	want := makeSubmission(1)
	path := writeFixture(t, []Submission{want})

	d, err := Open(path)
	require.NoError(t, err)

	batch, err := d.SampleSubmissions(1)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	got := batch[0]
	assert.Equal(t, want.SubmissionID, got.SubmissionID)
	assert.Equal(t, want.LeaderboardID, got.LeaderboardID)
	assert.Equal(t, want.UserID, got.UserID)
	assert.True(t, want.SubmissionTime.Equal(got.SubmissionTime))
	assert.Equal(t, want.FileName, got.FileName)
	assert.Equal(t, want.Code, got.Code)
	require.NotNil(t, got.RunScore)
	assert.InDelta(t, *want.RunScore, *got.RunScore, 1e-9)
	require.NotNil(t, got.RunMeta)
	assert.Equal(t, *want.RunMeta.Command, *got.RunMeta.Command)
	require.NotNil(t, got.RunSystemInfo)
	assert.Equal(t, *want.RunSystemInfo.GPU, *got.RunSystemInfo.GPU)
	assert.Nil(t, got.RunStartTime)
}

func TestSampleSubmissions_RunTimestampsRoundTrip(t *testing.T) {
	sub := makeSubmission(1)
	start := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	sub.RunStartTime = &start
	sub.RunEndTime = &end
	path := writeFixture(t, []Submission{sub})

	d, err := Open(path)
	require.NoError(t, err)

	batch, err := d.SampleSubmissions(1)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	got := batch[0]
	require.NotNil(t, got.RunStartTime)
	assert.True(t, start.Equal(*got.RunStartTime))
	require.NotNil(t, got.RunEndTime)
	assert.True(t, end.Equal(*got.RunEndTime))
}

func TestSampleSubmissions_MissingOptionalGroup(t *testing.T) {
	sub := makeSubmission(1)
	sub.RunMeta = nil
	sub.RunSystemInfo = nil
	sub.RunMode = nil
	path := writeFixture(t, []Submission{sub})

	d, err := Open(path)
	require.NoError(t, err)

	batch, err := d.SampleSubmissions(1)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	assert.Nil(t, batch[0].RunMeta)
	assert.Nil(t, batch[0].RunSystemInfo)
	assert.Nil(t, batch[0].RunMode)
}

func TestAll_VisitsEveryRowInOrder(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(4))
	d, err := Open(path)
	require.NoError(t, err)

	var ids []int64
	for sub, err := range d.All() {
		require.NoError(t, err)
		ids = append(ids, sub.SubmissionID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
}

func TestBatches_SequentialWithShortTail(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(5))
	d, err := Open(path)
	require.NoError(t, err)

	var sizes []int
	for batch, err := range d.Batches(2) {
		require.NoError(t, err)
		sizes = append(sizes, len(batch))
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestBatches_InvalidBatchSize(t *testing.T) {
	path := writeFixture(t, fixtureSubmissions(2))
	d, err := Open(path)
	require.NoError(t, err)

	for _, err := range d.Batches(0) {
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	}
}
