package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// loadCSV reads a CSV file into generic rows. The first record is treated
// as the header (column names). Empty cells are omitted from the row map so
// optional fields decode to nil instead of zero values.
func loadCSV(path string) ([]Row, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, &FormatError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, nil, &FormatError{Path: path, Err: errors.New("empty file (no header row)")}
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for j, h := range headers {
			if record[j] == "" {
				continue
			}
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, headers, nil
}
