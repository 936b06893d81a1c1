package model

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"healthguard/pkg/optim"
	"healthguard/pkg/stats"
)

const logisticKind = "logistic_regression"

// LogisticRegression (binary) with sigmoid.
// Features are standardized with a scaler fitted on the training rows, and the
// weights are fitted by full-batch gradient descent with an L2 penalty of
// strength 1/C. Weights start at zero, so fitting is deterministic.
type LogisticRegression struct {
	W       []float64 // weights, in the standardized feature space
	B       float64   // bias
	Scaler  *stats.StandardScaler
	Lr      float64
	MaxIter int
	Tol     float64 // stop once every gradient component is below Tol
	C       float64 // inverse regularization strength; <= 0 disables the penalty

	Iterations int     // iterations run by the last Fit
	Loss       float64 // training cross-entropy after the last Fit
}

// NewLogisticRegression returns an unfitted model that runs at most maxIter
// gradient steps.
func NewLogisticRegression(maxIter int) *LogisticRegression {
	return &LogisticRegression{
		Lr:      0.1,
		MaxIter: maxIter,
		Tol:     1e-6,
		C:       1.0,
	}
}

func (m *LogisticRegression) Kind() string { return logisticKind }

// NumFeatures is the input width the model was fitted on.
func (m *LogisticRegression) NumFeatures() int { return len(m.W) }

// Fit trains on X (rows of features) against 0/1 labels y.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}
	if m.MaxIter <= 0 {
		return &FitError{Reason: fmt.Sprintf("max iterations must be positive, got %d", m.MaxIter)}
	}
	n, d := len(X), len(X[0])

	m.Scaler = stats.NewStandardScaler()
	Xs := m.Scaler.FitTransform(X)
	flat := make([]float64, 0, n*d)
	for _, row := range Xs {
		flat = append(flat, row...)
	}
	Xd := mat.NewDense(n, d, flat)
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	m.W = make([]float64, d)
	m.B = 0
	// w shares its backing array with m.W, so optimizer steps are visible to MulVec.
	w := mat.NewVecDense(d, m.W)

	l2 := 0.0
	if m.C > 0 {
		l2 = 1 / (m.C * float64(n))
	}
	opt := optim.NewGradientDescent(m.Lr, l2)

	var z, r, g mat.VecDense
	p := make([]float64, n)
	pv := mat.NewVecDense(n, p)
	grads := make([]float64, d)
	m.Iterations = 0
	for it := 0; it < m.MaxIter; it++ {
		// Forward pass.
		z.MulVec(Xd, w)
		for i := 0; i < n; i++ {
			p[i] = Sigmoid(z.AtVec(i) + m.B)
		}

		// Gradient of the mean cross-entropy.
		r.SubVec(pv, yv)
		g.MulVec(Xd.T(), &r)
		gb := mat.Sum(&r) / float64(n)

		largest := math.Abs(gb)
		for j := 0; j < d; j++ {
			grads[j] = g.AtVec(j) / float64(n)
			if a := math.Abs(grads[j] + l2*m.W[j]); a > largest {
				largest = a
			}
		}
		m.Iterations = it + 1
		if largest < m.Tol {
			break
		}
		opt.Step(m.W, grads)
		m.B -= m.Lr * gb
	}

	if math.IsNaN(m.B) || math.IsInf(m.B, 0) || floats.HasNaN(m.W) || math.IsInf(floats.Norm(m.W, 2), 0) {
		return &FitError{Reason: "weights diverged"}
	}
	m.Loss = BCE(y, m.PredictProba(X))
	return nil
}

func checkTrainingData(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return &FitError{Reason: "no training rows"}
	}
	if len(X) != len(y) {
		return &FitError{Reason: fmt.Sprintf("%d rows but %d labels", len(X), len(y))}
	}
	d := len(X[0])
	if d == 0 {
		return &FitError{Reason: "no features"}
	}
	var pos, neg int
	for i, row := range X {
		if len(row) != d {
			return &FitError{Reason: fmt.Sprintf("row %d has %d features, want %d", i, len(row), d)}
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &FitError{Reason: fmt.Sprintf("row %d has a non-finite feature", i)}
			}
		}
		switch y[i] {
		case 0:
			neg++
		case 1:
			pos++
		default:
			return &FitError{Reason: fmt.Sprintf("label %v at row %d is not 0 or 1", y[i], i)}
		}
	}
	if pos == 0 || neg == 0 {
		return &FitError{Reason: "training labels contain a single class"}
	}
	return nil
}

// PredictProba returns the probability scores (between 0 and 1) for each input row in X.
// Rows whose width differs from the fitted width score NaN.
// It uses goroutines to parallelize the prediction process for efficiency.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
	var wg sync.WaitGroup

	// Determine the number of workers based on available CPU cores.
	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				row := X[i]
				if len(row) != len(m.W) {
					out[i] = math.NaN()
					continue
				}
				out[i] = Sigmoid(m.B + floats.Dot(m.W, m.Scaler.TransformRow(row)))
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// Predict returns the class labels (0 or 1) based on a 0.5 probability threshold.
func (m *LogisticRegression) Predict(X [][]float64) []float64 {
	return BinaryPredFromProba(m.PredictProba(X), 0.5)
}

type logisticState struct {
	W          []float64
	B          float64
	Mean, Std  []float64
	Lr         float64
	MaxIter    int
	Tol        float64
	C          float64
	Iterations int
	Loss       float64
}

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (m *LogisticRegression) MarshalBinary() ([]byte, error) {
	st := logisticState{
		W: m.W, B: m.B,
		Lr: m.Lr, MaxIter: m.MaxIter, Tol: m.Tol, C: m.C,
		Iterations: m.Iterations, Loss: m.Loss,
	}
	if m.Scaler != nil {
		st.Mean, st.Std = m.Scaler.Mean, m.Scaler.Std
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (m *LogisticRegression) UnmarshalBinary(data []byte) error {
	var st logisticState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return err
	}
	if len(st.Mean) != len(st.W) || len(st.Std) != len(st.W) {
		return fmt.Errorf("logistic regression: scaler width %d/%d does not match %d weights", len(st.Mean), len(st.Std), len(st.W))
	}
	*m = LogisticRegression{
		W: st.W, B: st.B,
		Scaler: &stats.StandardScaler{Mean: st.Mean, Std: st.Std},
		Lr:     st.Lr, MaxIter: st.MaxIter, Tol: st.Tol, C: st.C,
		Iterations: st.Iterations, Loss: st.Loss,
	}
	return nil
}
