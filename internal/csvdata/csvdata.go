// Package csvdata loads a local CSV file as column names plus one object per row.
package csvdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

// Table is the JSON shape served by the CSV demo endpoint.
type Table struct {
	Columns []string         `json:"columns"`
	Data    []map[string]any `json:"data"`
}

func empty() *Table {
	return &Table{Columns: []string{}, Data: []map[string]any{}}
}

// Load reads the CSV at path. A missing file yields an empty table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a header row followed by data rows. Cells are typed as
// integer, float or boolean where they parse as one; empty cells become nil.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &Table{Columns: header, Data: []map[string]any{}}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if len(row) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("csv line %d: expected %d fields, saw %d", line, len(header), len(row))
		}

		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = cell(row[i])
			} else {
				rec[col] = nil
			}
		}
		table.Data = append(table.Data, rec)
	}
	return table, nil
}

func cell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
