package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/parquet-go/parquet-go"
)

// loadParquet reads every row of a parquet file into generic rows. The
// schema is taken from the file, not assumed: each leaf column gets a
// converter picked from its physical and logical type, and nested groups
// become nested maps.
func loadParquet(path string) ([]Row, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, nil, &FormatError{Path: path, Err: err}
	}

	schema := pf.Schema()
	paths := schema.Columns()

	columns := make([]string, 0, len(schema.Fields()))
	for _, field := range schema.Fields() {
		columns = append(columns, field.Name())
	}

	convs := make([]func(parquet.Value) any, len(paths))
	for i, p := range paths {
		leaf, ok := schema.Lookup(p...)
		if !ok {
			return nil, nil, &FormatError{Path: path, Err: fmt.Errorf("column %v not found in schema", p)}
		}
		convs[i] = converterFor(leaf.Node.Type())
	}

	rows := make([]Row, 0, pf.NumRows())
	buf := make([]parquet.Row, 64)

	for _, rg := range pf.RowGroups() {
		rr := rg.Rows()
		for {
			n, readErr := rr.ReadRows(buf)
			for _, pr := range buf[:n] {
				rows = append(rows, rowToMap(pr, paths, convs))
			}
			if errors.Is(readErr, io.EOF) {
				break
			}
			if readErr != nil {
				rr.Close() //nolint:errcheck
				return nil, nil, &FormatError{Path: path, Err: readErr}
			}
			if n == 0 {
				break
			}
		}
		rr.Close() //nolint:errcheck
	}

	return rows, columns, nil
}

// rowToMap places each leaf value at its (possibly nested) column path.
// Optional groups where every leaf came back null collapse to a nil value,
// so a missing run_meta reads as nil rather than a map of nils.
func rowToMap(pr parquet.Row, paths [][]string, convs []func(parquet.Value) any) Row {
	m := make(Row, len(paths))
	for _, v := range pr {
		col := v.Column()
		if col < 0 || col >= len(paths) {
			continue
		}
		var val any
		if !v.IsNull() {
			val = convs[col](v)
		}
		insertAt(m, paths[col], val)
	}
	collapseNilGroups(m)
	return m
}

func insertAt(m map[string]any, path []string, val any) {
	for len(path) > 1 {
		child, ok := m[path[0]].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[path[0]] = child
		}
		m = child
		path = path[1:]
	}
	m[path[0]] = val
}

func collapseNilGroups(m map[string]any) {
	for k, v := range m {
		child, ok := v.(map[string]any)
		if !ok {
			continue
		}
		collapseNilGroups(child)
		allNil := true
		for _, cv := range child {
			if cv != nil {
				allNil = false
				break
			}
		}
		if allNil {
			m[k] = nil
		}
	}
}

// converterFor maps a parquet leaf type to a Go value conversion. Integers
// widen to int64, floats to float64; timestamps become time.Time in UTC and
// UTF8 byte arrays become strings. Raw byte arrays are cloned because the
// reader reuses its buffers between calls.
func converterFor(t parquet.Type) func(parquet.Value) any {
	lt := t.LogicalType()

	switch t.Kind() {
	case parquet.Boolean:
		return func(v parquet.Value) any { return v.Boolean() }
	case parquet.Int32:
		return func(v parquet.Value) any { return int64(v.Int32()) }
	case parquet.Int64:
		if lt != nil && lt.Timestamp != nil {
			unit := lt.Timestamp.Unit
			switch {
			case unit.Millis != nil:
				return func(v parquet.Value) any { return time.UnixMilli(v.Int64()).UTC() }
			case unit.Micros != nil:
				return func(v parquet.Value) any { return time.UnixMicro(v.Int64()).UTC() }
			default:
				return func(v parquet.Value) any { return time.Unix(0, v.Int64()).UTC() }
			}
		}
		return func(v parquet.Value) any { return v.Int64() }
	case parquet.Float:
		return func(v parquet.Value) any { return float64(v.Float()) }
	case parquet.Double:
		return func(v parquet.Value) any { return v.Double() }
	default:
		if lt != nil && lt.UTF8 != nil {
			return func(v parquet.Value) any { return string(v.ByteArray()) }
		}
		return func(v parquet.Value) any { return slices.Clone(v.ByteArray()) }
	}
}
