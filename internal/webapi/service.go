package webapi

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kernelbot/hypercorn/dataset"
	"github.com/kernelbot/hypercorn/internal/summary"
)

// DatasetStore provides access to the served dataset.
type DatasetStore interface {
	// Info describes the dataset: path, row count, columns.
	Info() (*InfoResponse, error)
	// Sample draws a random batch. A non-nil seed re-seeds the sampler
	// first, making the batch reproducible.
	Sample(count int, seed *int64) ([]dataset.Row, error)
	// Stats returns the dataset profile.
	Stats(ctx context.Context) (*StatsResponse, error)
	// Card returns the dataset card markdown, or "" when none exists.
	Card() (string, error)
}

// cardFileNames are checked, in order, next to the dataset file.
var cardFileNames = []string{"DATASET.md", "README.md"}

// Service serves one loaded dataset. The profile is computed once on first
// request and reused; the dataset is immutable so it never goes stale.
type Service struct {
	ds *dataset.Dataset

	statsOnce sync.Once
	stats     *summary.DatasetSummary
	statsErr  error
}

// NewService creates a DatasetStore over the given dataset.
func NewService(ds *dataset.Dataset) *Service {
	return &Service{ds: ds}
}

func (s *Service) Info() (*InfoResponse, error) {
	return &InfoResponse{
		Path:    s.ds.Path(),
		Rows:    s.ds.Len(),
		Columns: s.ds.Columns(),
	}, nil
}

func (s *Service) Sample(count int, seed *int64) ([]dataset.Row, error) {
	if seed != nil {
		s.ds.Seed(*seed)
	}
	return s.ds.Sample(count)
}

func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	s.statsOnce.Do(func() {
		s.stats, s.statsErr = summary.Compute(ctx, s.ds, -1)
	})
	if s.statsErr != nil {
		return nil, fmt.Errorf("profiling dataset: %w", s.statsErr)
	}
	return s.stats, nil
}

func (s *Service) Card() (string, error) {
	dir := filepath.Dir(s.ds.Path())
	for _, name := range cardFileNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("reading dataset card: %w", err)
		}
	}
	return "", nil
}
