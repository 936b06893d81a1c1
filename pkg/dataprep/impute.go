package dataprep

import "healthguard/pkg/stats"

// ImputeMean replaces missing cells with the mean of the column's present
// values, in place. A column with no present values is filled with 0.
// It returns the fill value used.
func ImputeMean(vals []float64, missing []bool) float64 {
	present := make([]float64, 0, len(vals))
	for i, v := range vals {
		if !missing[i] {
			present = append(present, v)
		}
	}
	mean := 0.0
	if len(present) > 0 {
		mean = stats.Mean(present)
	}
	for i := range vals {
		if missing[i] {
			vals[i] = mean
			missing[i] = false
		}
	}
	return mean
}
