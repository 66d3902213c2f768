// Package export writes submission batches to interchange formats: a JSON
// array, newline-delimited JSON, or CSV, optionally zstd-compressed.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/kernelbot/hypercorn/dataset"
)

// Format identifies an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// FormatFor derives the output format from a file name. A trailing .zst
// marks the payload for zstd compression: sample.jsonl.zst writes
// compressed JSONL.
func FormatFor(path string) (format Format, compressed bool, err error) {
	name := path
	if strings.EqualFold(filepath.Ext(name), ".zst") {
		compressed = true
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, compressed, nil
	case ".jsonl":
		return FormatJSONL, compressed, nil
	case ".csv":
		return FormatCSV, compressed, nil
	default:
		return "", false, fmt.Errorf("cannot infer export format from %q (use .json, .jsonl, or .csv, optionally with .zst)", path)
	}
}

// Write encodes rows to the file at path, inferring format and compression
// from the file name.
func Write(path string, columns []string, rows []dataset.Row) error {
	format, compressed, err := FormatFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var w io.Writer = f
	var zw *zstd.Encoder
	if compressed {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
		w = zw
	}

	if err := WriteTo(w, format, columns, rows); err != nil {
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("flushing zstd stream: %w", err)
		}
	}
	return f.Close()
}

// WriteTo encodes rows to w in the given format.
func WriteTo(w io.Writer, format Format, columns []string, rows []dataset.Row) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatJSONL:
		return writeJSONL(w, rows)
	case FormatCSV:
		return writeCSV(w, columns, rows)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeJSON(w io.Writer, rows []dataset.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func writeJSONL(w io.Writer, rows []dataset.Row) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encoding JSONL row: %w", err)
		}
	}
	return nil
}

func writeCSV(w io.Writer, columns []string, rows []dataset.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cell, err := renderCell(row[col])
			if err != nil {
				return err
			}
			record[i] = cell
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// renderCell flattens a row value to a CSV cell. Nested groups are encoded
// as compact JSON so the column survives a round trip.
func renderCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case time.Time:
		return val.Format(time.RFC3339), nil
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("encoding nested column: %w", err)
		}
		return string(data), nil
	default:
		return fmt.Sprint(val), nil
	}
}
