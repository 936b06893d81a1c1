package dataprep

import (
	"errors"
	"fmt"

	"healthguard/pkg/data"
)

type outColumn struct {
	name string
	vals []float64
}

// Normalize turns raw records into a numeric Table following rules.
//
// Column order of the result is deterministic: numeric columns in source
// order (a renamed target is appended after them), then the indicator
// columns of each categorical column in source order with levels sorted.
// No row is ever dropped.
func Normalize(recs *data.Records, rules Rules) (*Table, error) {
	fail := func(e *SchemaError) error {
		e.Disease = rules.Name
		return e
	}
	if rules.DeriveTarget == nil {
		return nil, errors.New("normalize: rules have no target rule")
	}

	tIdx := recs.Column(rules.Target)
	if tIdx < 0 {
		return nil, fail(&SchemaError{Column: rules.Target, Reason: "target column missing"})
	}
	if recs.Len() == 0 {
		return nil, fail(&SchemaError{Reason: "dataset has no rows"})
	}

	n := recs.Len()
	sentinels := sentinelSet(rules.Sentinels)
	cols := make([]*rawColumn, len(recs.Header))
	for j, name := range recs.Header {
		cols[j] = &rawColumn{name: name, cells: make([]string, n), missing: make([]bool, n)}
	}
	for i, row := range recs.Rows {
		if len(row) != len(recs.Header) {
			return nil, fail(&SchemaError{Row: i + 1, Reason: fmt.Sprintf("row has %d cells, header has %d", len(row), len(recs.Header))})
		}
		for j, cell := range row {
			cols[j].cells[i], cols[j].missing[i] = cleanCell(cell, rules.Fold, sentinels)
		}
	}

	y := make([]float64, n)
	tc := cols[tIdx]
	for i := range y {
		v, err := rules.DeriveTarget(tc.cells[i], tc.missing[i])
		if err != nil {
			return nil, fail(&SchemaError{Column: rules.Target, Row: i + 1, Reason: err.Error()})
		}
		y[i] = v
	}
	target := rules.targetName()
	inPlace := target == rules.Target

	var numeric, indicators []outColumn
	categories := map[string]Category{}
	for j, c := range cols {
		if j == tIdx {
			if inPlace {
				numeric = append(numeric, outColumn{name: target, vals: y})
			}
			continue
		}
		if rules.dropped(c.name) {
			continue
		}

		if c.numericShare() >= rules.NumericShare {
			vals, missing := c.coerce()
			ImputeMean(vals, missing)
			numeric = append(numeric, outColumn{name: c.name, vals: vals})
			continue
		}
		if !rules.Expand {
			return nil, fail(&SchemaError{Column: c.name, Reason: "non-numeric values in a numeric-only dataset"})
		}
		names, ind, cat := EncodeIndicators(c.name, c.cells, c.missing)
		categories[c.name] = cat
		for k := range names {
			indicators = append(indicators, outColumn{name: names[k], vals: ind[k]})
		}
	}
	if !inPlace {
		numeric = append(numeric, outColumn{name: target, vals: y})
	}

	all := append(numeric, indicators...)
	t := &Table{
		Columns:    make([]string, len(all)),
		Rows:       make([][]float64, n),
		Target:     target,
		Categories: categories,
	}
	for k, c := range all {
		t.Columns[k] = c.name
	}
	for i := range t.Rows {
		row := make([]float64, len(all))
		for k, c := range all {
			row[k] = c.vals[i]
		}
		t.Rows[i] = row
	}

	if err := t.Validate(); err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			return nil, fail(se)
		}
		return nil, err
	}
	return t, nil
}
