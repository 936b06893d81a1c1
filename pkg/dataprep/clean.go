package dataprep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultSentinels are the textual placeholders read as "missing" when a
// disease does not define its own list. Comparison is exact after trimming.
var DefaultSentinels = []string{
	"", "?", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"NULL", "null", "None", "<NA>", "#N/A", "#NA",
}

// TargetRule maps a cleaned raw target cell to 0 or 1.
type TargetRule func(cell string, missing bool) (float64, error)

// BinaryTarget accepts a pre-existing 0/1 indicator.
func BinaryTarget(cell string, missing bool) (float64, error) {
	if missing {
		return 0, fmt.Errorf("target is missing")
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("target %q is not numeric", cell)
	}
	if v != 0 && v != 1 {
		return 0, fmt.Errorf("target value %v is not 0 or 1", v)
	}
	return v, nil
}

// PositiveTarget collapses a multi-valued severity score: value > 0 is 1,
// anything else (including a missing score) is 0.
func PositiveTarget(cell string, missing bool) (float64, error) {
	if missing {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("severity %q is not numeric", cell)
	}
	if v > 0 {
		return 1, nil
	}
	return 0, nil
}

// LabelTarget maps one text label to 1 and every other value to 0.
func LabelTarget(positive string) TargetRule {
	return func(cell string, missing bool) (float64, error) {
		if !missing && cell == positive {
			return 1, nil
		}
		return 0, nil
	}
}

// Rules are the per-disease normalization settings.
type Rules struct {
	// Name labels errors, usually the disease identifier.
	Name string
	// Target is the raw column the target is derived from.
	Target string
	// TargetName names the derived target column when it differs from
	// Target. The derived column is then appended after the source columns.
	TargetName   string
	DeriveTarget TargetRule
	// Drop lists raw columns removed before feature derivation.
	Drop      []string
	Sentinels []string
	// Fold trims and lower-cases every cell before anything else.
	Fold bool
	// Expand turns categorical columns into drop-first indicator columns.
	// Without it a categorical column is a schema error.
	Expand bool
	// NumericShare is the minimum share of non-missing cells that must parse
	// as numbers for a column to be numeric. Below 1, stray text in a numeric
	// column is coerced to missing.
	NumericShare float64
}

func (r Rules) targetName() string {
	if r.TargetName != "" {
		return r.TargetName
	}
	return r.Target
}

func (r Rules) dropped(col string) bool {
	for _, d := range r.Drop {
		if d == col {
			return true
		}
	}
	return false
}

// cleanCell trims (and optionally folds) a raw cell and reports whether it is
// a missing-value sentinel.
func cleanCell(raw string, fold bool, sentinels map[string]struct{}) (string, bool) {
	v := strings.TrimSpace(raw)
	if fold {
		v = strings.ToLower(v)
	}
	_, missing := sentinels[v]
	return v, missing
}

func sentinelSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[s] = struct{}{}
	}
	return set
}

// parseNumber parses a finite number. "inf" and "nan" spellings are rejected
// so they can never reach the table.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// rawColumn is one source column after cell cleaning.
type rawColumn struct {
	name    string
	cells   []string
	missing []bool
}

// numericShare returns the share of non-missing cells that parse as numbers.
// A column with no values at all counts as numeric.
func (c *rawColumn) numericShare() float64 {
	present, parsed := 0, 0
	for i, v := range c.cells {
		if c.missing[i] {
			continue
		}
		present++
		if _, ok := parseNumber(v); ok {
			parsed++
		}
	}
	if present == 0 {
		return 1
	}
	return float64(parsed) / float64(present)
}

// coerce converts the column to numbers. Cells that fail to parse become
// missing.
func (c *rawColumn) coerce() ([]float64, []bool) {
	vals := make([]float64, len(c.cells))
	missing := make([]bool, len(c.cells))
	for i, v := range c.cells {
		if c.missing[i] {
			missing[i] = true
			continue
		}
		num, ok := parseNumber(v)
		if !ok {
			missing[i] = true
			continue
		}
		vals[i] = num
	}
	return vals, missing
}
