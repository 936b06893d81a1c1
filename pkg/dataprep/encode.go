package dataprep

import "sort"

// EncodeIndicators expands a categorical column into one 0/1 column per
// observed level, dropping the lexicographically smallest level as the
// reference so the indicators stay linearly independent. Missing cells get 0
// in every indicator.
func EncodeIndicators(name string, cells []string, missing []bool) ([]string, [][]float64, Category) {
	unique := map[string]struct{}{}
	for i, v := range cells {
		if !missing[i] {
			unique[v] = struct{}{}
		}
	}
	levels := make([]string, 0, len(unique))
	for v := range unique {
		levels = append(levels, v)
	}
	sort.Strings(levels)
	if len(levels) == 0 {
		return nil, nil, Category{}
	}

	cat := Category{Reference: levels[0], Levels: levels[1:]}
	pos := make(map[string]int, len(cat.Levels))
	names := make([]string, len(cat.Levels))
	cols := make([][]float64, len(cat.Levels))
	for k, level := range cat.Levels {
		pos[level] = k
		names[k] = Indicator(name, level)
		cols[k] = make([]float64, len(cells))
	}
	for i, v := range cells {
		if missing[i] {
			continue
		}
		if k, ok := pos[v]; ok {
			cols[k][i] = 1
		}
	}
	return names, cols, cat
}
