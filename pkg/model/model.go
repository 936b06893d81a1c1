package model

// Model is a generic supervised learning interface.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// Classifier optionally exposes probabilities.
type Classifier interface {
	Model
	PredictProba(X [][]float64) []float64 // returns p(y=1) for binary classifiers
}

// Dimensioned is implemented by fitted models that know their input width.
type Dimensioned interface {
	NumFeatures() int
}
