// Package dataset loads competition submission datasets from columnar
// files and serves random batches of rows for training and evaluation.
//
// A Dataset is loaded fully into memory at Open and is immutable
// afterwards; re-reading a file means opening a new Dataset. Rows are
// exposed both generically (Row, keyed by column name, schema defined by
// the file) and typed (Submission, the canonical dump schema).
package dataset

import (
	"fmt"
	"iter"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
)

// Row is one row of the source table, keyed by column name. Nested column
// groups appear as nested maps. Rows are shared with the Dataset; callers
// must not modify them.
type Row map[string]any

// Dataset is an in-memory competition dataset. All methods are safe for
// concurrent use; the table is never mutated after load and the sampling
// RNG is guarded by a mutex.
type Dataset struct {
	path    string
	columns []string
	rows    []Row

	mu          sync.Mutex
	rng         *rand.Rand
	replacement bool
}

type openConfig struct {
	seed        int64
	replacement bool
}

// Option configures a Dataset at Open time.
type Option func(*openConfig)

// WithSeed fixes the sampling RNG seed for reproducible batches. A negative
// seed selects a non-deterministic source, which is also the default.
func WithSeed(seed int64) Option {
	return func(c *openConfig) { c.seed = seed }
}

// WithReplacement makes Sample draw rows with replacement, so a single
// batch may contain duplicates. The default is without replacement.
func WithReplacement() Option {
	return func(c *openConfig) { c.replacement = true }
}

// Open loads the columnar file at path fully into memory. Parquet is the
// canonical format; files ending in .csv are read as CSV with a header row.
// A missing file surfaces the underlying os error; unparseable content
// surfaces a *FormatError. Open never returns a partially loaded Dataset.
func Open(path string, opts ...Option) (*Dataset, error) {
	cfg := openConfig{seed: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		rows    []Row
		columns []string
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows, columns, err = loadCSV(path)
	} else {
		rows, columns, err = loadParquet(path)
	}
	if err != nil {
		return nil, err
	}

	src := cfg.seed
	if src < 0 {
		src = rand.Int63()
	}

	return &Dataset{
		path:        path,
		columns:     columns,
		rows:        rows,
		rng:         rand.New(rand.NewSource(src)),
		replacement: cfg.replacement,
	}, nil
}

// Len returns the number of rows loaded from the source file.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Path returns the source file path the Dataset was opened from.
func (d *Dataset) Path() string {
	return d.path
}

// Columns returns the top-level column names in schema order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Row returns the row at index i in file order.
func (d *Dataset) Row(i int) Row {
	return d.rows[i]
}

// Seed re-seeds the sampling RNG so subsequent batches are reproducible.
func (d *Dataset) Seed(seed int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rng = rand.New(rand.NewSource(seed))
}

// Sample draws a random batch of rows. Batches are drawn without
// replacement unless the Dataset was opened WithReplacement, so a single
// call never returns duplicate rows. A batch size larger than Len() is
// clamped to Len(); a batch size smaller than 1 fails with
// ErrInvalidBatchSize. The returned order carries no guarantee.
func (d *Dataset) Sample(batchSize int) ([]Row, error) {
	idx, err := d.sampleIndices(batchSize)
	if err != nil {
		return nil, err
	}
	batch := make([]Row, len(idx))
	for i, j := range idx {
		batch[i] = d.rows[j]
	}
	return batch, nil
}

// SampleSubmissions draws a random batch and decodes each row into a typed
// Submission. Sampling policy matches Sample.
func (d *Dataset) SampleSubmissions(batchSize int) ([]Submission, error) {
	idx, err := d.sampleIndices(batchSize)
	if err != nil {
		return nil, err
	}
	batch := make([]Submission, 0, len(idx))
	for _, j := range idx {
		sub, err := DecodeSubmission(d.rows[j])
		if err != nil {
			return nil, err
		}
		batch = append(batch, sub)
	}
	return batch, nil
}

func (d *Dataset) sampleIndices(batchSize int) ([]int, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidBatchSize, batchSize)
	}
	n := len(d.rows)
	if n == 0 {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.replacement {
		idx := make([]int, batchSize)
		for i := range idx {
			idx[i] = d.rng.Intn(n)
		}
		return idx, nil
	}

	if batchSize > n {
		batchSize = n
	}
	return d.rng.Perm(n)[:batchSize], nil
}

// All iterates lazily over every row in file order, decoding each into a
// Submission. Iteration stops after yielding the first decode error.
func (d *Dataset) All() iter.Seq2[Submission, error] {
	return func(yield func(Submission, error) bool) {
		for _, row := range d.rows {
			sub, err := DecodeSubmission(row)
			if !yield(sub, err) || err != nil {
				return
			}
		}
	}
}

// Batches iterates over the dataset in sequential batches of batchSize
// typed submissions; the final batch may be short. An invalid batch size
// or a decode failure is yielded as the error of the terminal element.
func (d *Dataset) Batches(batchSize int) iter.Seq2[[]Submission, error] {
	return func(yield func([]Submission, error) bool) {
		if batchSize < 1 {
			yield(nil, fmt.Errorf("%w, got %d", ErrInvalidBatchSize, batchSize))
			return
		}
		for start := 0; start < len(d.rows); start += batchSize {
			end := min(start+batchSize, len(d.rows))
			batch := make([]Submission, 0, end-start)
			for _, row := range d.rows[start:end] {
				sub, err := DecodeSubmission(row)
				if err != nil {
					yield(nil, err)
					return
				}
				batch = append(batch, sub)
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}
