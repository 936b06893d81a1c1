package stats

// StandardScaler standardizes each column to zero mean and unit variance
// using statistics fitted on training data. Constant columns keep a unit
// divisor so they map to 0.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return nil
	}
	c := len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, len(X))
	for j := 0; j < c; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		s.Mean[j] = Mean(col)
		s.Std[j] = Std(col)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return nil
}

// Fitted reports whether Fit has been called with data.
func (s *StandardScaler) Fitted() bool { return s != nil && s.Mean != nil }

// TransformRow standardizes a single row into a new slice.
func (s *StandardScaler) TransformRow(x []float64) []float64 {
	out := make([]float64, len(x))
	if !s.Fitted() {
		copy(out, x)
		return out
	}
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	Y := make([][]float64, len(X))
	for i, row := range X {
		Y[i] = s.TransformRow(row)
	}
	return Y
}

func (s *StandardScaler) FitTransform(X [][]float64) [][]float64 { _ = s.Fit(X); return s.Transform(X) }
