package trainer

import (
	"fmt"

	"healthguard/pkg/dataprep"
	"healthguard/pkg/disease"
	"healthguard/pkg/loader"
	"healthguard/pkg/model"
	"healthguard/pkg/pipeline"
)

// Config controls the holdout split and the iteration cap of a fit.
type Config struct {
	TestRatio float64
	Seed      int64
	MaxIter   int
}

// DefaultConfig holds out 20% of the rows with seed 42, so accuracy stays
// comparable between runs of the same normalization rules.
func DefaultConfig(maxIter int) Config {
	return Config{TestRatio: 0.2, Seed: 42, MaxIter: maxIter}
}

// Report summarizes one fit and its holdout evaluation.
type Report struct {
	Disease    disease.Disease
	RunID      string
	Accuracy   float64
	Precision  float64
	Recall     float64
	F1         float64
	Confusion  model.Confusion
	TrainRows  int
	TestRows   int
	Features   int
	Iterations int
	Loss       float64

	// Holdout scores, kept for charts.
	HoldoutProba []float64
	HoldoutTrue  []float64
}

// Train fits a logistic regression on the training partition of t, taking
// the feature columns in schema order, and scores it on the holdout rows.
func Train(t *dataprep.Table, s *pipeline.Schema, cfg Config) (*model.LogisticRegression, *Report, error) {
	if cfg.TestRatio <= 0 || cfg.TestRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in (0, 1), got %v", cfg.TestRatio)
	}
	X, y, err := t.Matrix(s.FeatureNames)
	if err != nil {
		return nil, nil, err
	}
	XTrain, XTest, yTrain, yTest := loader.TrainTestSplit(X, y, cfg.TestRatio, cfg.Seed)
	if len(XTrain) == 0 {
		return nil, nil, &model.FitError{Reason: fmt.Sprintf("%d rows leave nothing to train on", len(X))}
	}

	m := model.NewLogisticRegression(cfg.MaxIter)
	if err := m.Fit(XTrain, yTrain); err != nil {
		return nil, nil, err
	}

	proba := m.PredictProba(XTest)
	pred := model.BinaryPredFromProba(proba, 0.5)
	conf := model.NewConfusion(yTest, pred)
	prec, rec, f1 := conf.PrecisionRecallF1()

	return m, &Report{
		Disease:      disease.Disease(s.Disease),
		RunID:        s.RunID,
		Accuracy:     model.Accuracy(yTest, pred),
		Precision:    prec,
		Recall:       rec,
		F1:           f1,
		Confusion:    conf,
		TrainRows:    len(XTrain),
		TestRows:     len(XTest),
		Features:     s.Len(),
		Iterations:   m.Iterations,
		Loss:         m.Loss,
		HoldoutProba: proba,
		HoldoutTrue:  yTest,
	}, nil
}
