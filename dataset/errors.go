package dataset

import (
	"errors"
	"fmt"
)

// ErrInvalidBatchSize is returned when a sampling or batching call is given
// a batch size smaller than 1.
var ErrInvalidBatchSize = errors.New("batch size must be at least 1")

// FormatError indicates that a source file exists but could not be parsed
// as the expected columnar format.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dataset: parse %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
