package dataprep

import (
	"fmt"
	"math"
)

// Category records how a categorical source column was expanded: Reference is
// the dropped level, Levels are the levels that received an indicator column
// named "<column>_<level>".
type Category struct {
	Reference string   `yaml:"reference"`
	Levels    []string `yaml:"levels"`
}

// Indicator returns the indicator column name for a level.
func Indicator(column, level string) string {
	return column + "_" + level
}

// Table is a fully numeric dataset with one binary target column.
//
// Columns is the column order produced by normalization; it includes Target.
// Every row has len(Columns) finite cells.
type Table struct {
	Columns    []string
	Rows       [][]float64
	Target     string
	Categories map[string]Category
}

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Features returns every column except the target, in table order.
func (t *Table) Features() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c != t.Target {
			out = append(out, c)
		}
	}
	return out
}

// Column copies out the values of one column.
func (t *Table) Column(name string) ([]float64, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("no column %q", name)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Matrix extracts the design matrix with columns in the given order plus the
// target vector.
func (t *Table) Matrix(features []string) ([][]float64, []float64, error) {
	idx := make([]int, len(features))
	for j, name := range features {
		idx[j] = t.Index(name)
		if idx[j] < 0 {
			return nil, nil, fmt.Errorf("feature %q not in table", name)
		}
	}
	yIdx := t.Index(t.Target)
	if yIdx < 0 {
		return nil, nil, fmt.Errorf("target %q not in table", t.Target)
	}

	X := make([][]float64, len(t.Rows))
	Y := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		x := make([]float64, len(idx))
		for j, c := range idx {
			x[j] = row[c]
		}
		X[i] = x
		Y[i] = row[yIdx]
	}
	return X, Y, nil
}

// Validate checks the table invariants: rectangular, finite cells, target
// present and binary.
func (t *Table) Validate() error {
	yIdx := t.Index(t.Target)
	if yIdx < 0 {
		return &SchemaError{Column: t.Target, Reason: "target column missing"}
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := seen[c]; dup {
			return &SchemaError{Column: c, Reason: "duplicate column"}
		}
		seen[c] = struct{}{}
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return &SchemaError{Row: i + 1, Reason: fmt.Sprintf("row has %d cells, want %d", len(row), len(t.Columns))}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &SchemaError{Column: t.Columns[j], Row: i + 1, Reason: "non-finite value"}
			}
		}
		if y := row[yIdx]; y != 0 && y != 1 {
			return &SchemaError{Column: t.Target, Row: i + 1, Reason: fmt.Sprintf("target value %v is not 0 or 1", y)}
		}
	}
	return nil
}
