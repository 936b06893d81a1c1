package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"healthguard/pkg/disease"
	"healthguard/pkg/model"
	"healthguard/pkg/pipeline"
)

// ErrUnknownDisease is returned for a disease outside the supported set.
var ErrUnknownDisease = errors.New("unknown disease")

// ModelUnavailableError means the classifier of a disease could not be
// loaded. The cause (for example a registry NotFoundError) stays reachable
// through errors.As and errors.Is.
type ModelUnavailableError struct {
	Disease disease.Disease
	Err     error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model for %s unavailable: %v", e.Disease, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// Loader restores the trained classifier and schema of a disease.
// *registry.Registry satisfies it.
type Loader interface {
	Load(ctx context.Context, d disease.Disease) (model.Model, *pipeline.Schema, error)
}

// Result is one prediction. Probability is the positive-class probability
// as a percentage in [0, 100], nil when the classifier gives no scores.
type Result struct {
	Disease     disease.Disease `json:"disease"`
	Label       int             `json:"label"`
	Risk        string          `json:"risk"`
	Probability *float64        `json:"probability,omitempty"`
}

type handle struct {
	model  model.Model
	schema *pipeline.Schema
}

type entry struct {
	mu sync.Mutex
	h  *handle
}

// Service answers predictions from classifiers loaded lazily on first use.
// A loaded handle is read-only and reused for the life of the Service;
// a failed load is not cached, so a later call tries again.
type Service struct {
	loader  Loader
	fill    pipeline.FillPolicy
	entries map[disease.Disease]*entry
}

type Option func(*Service)

// WithFillPolicy sets how features missing from the inputs are filled.
// The default is pipeline.ZeroFill.
func WithFillPolicy(p pipeline.FillPolicy) Option { return func(s *Service) { s.fill = p } }

func NewService(loader Loader, opts ...Option) *Service {
	s := &Service{
		loader:  loader,
		fill:    pipeline.ZeroFill,
		entries: make(map[disease.Disease]*entry),
	}
	for _, d := range disease.All() {
		s.entries[d] = &entry{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) handle(ctx context.Context, d disease.Disease) (*handle, error) {
	e, ok := s.entries[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDisease, d)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.h != nil {
		return e.h, nil
	}
	m, schema, err := s.loader.Load(ctx, d)
	if err != nil {
		return nil, &ModelUnavailableError{Disease: d, Err: err}
	}
	e.h = &handle{model: m, schema: schema}
	return e.h, nil
}

// Schema returns the frozen feature schema of a disease, loading it if needed.
func (s *Service) Schema(ctx context.Context, d disease.Disease) (*pipeline.Schema, error) {
	h, err := s.handle(ctx, d)
	if err != nil {
		return nil, err
	}
	return h.schema, nil
}

// Predict assembles inputs against the disease's schema and classifies the
// resulting vector. It never substitutes a default answer when the
// classifier is unavailable.
func (s *Service) Predict(ctx context.Context, d disease.Disease, inputs pipeline.RawInputs) (*Result, error) {
	h, err := s.handle(ctx, d)
	if err != nil {
		return nil, err
	}

	vec := pipeline.AssembleWith(inputs, h.schema, s.fill)
	if dm, ok := h.model.(model.Dimensioned); ok && dm.NumFeatures() != len(vec) {
		return nil, &ModelUnavailableError{
			Disease: d,
			Err:     fmt.Errorf("classifier expects %d features, schema has %d", dm.NumFeatures(), len(vec)),
		}
	}
	X := [][]float64{vec}

	label := int(h.model.Predict(X)[0])
	res := &Result{Disease: d, Label: label, Risk: d.RiskText(label)}

	if c, ok := h.model.(model.Classifier); ok {
		p := c.PredictProba(X)[0]
		if math.IsNaN(p) {
			return nil, fmt.Errorf("predict %s: classifier returned no probability", d)
		}
		pct := p * 100
		res.Probability = &pct
	}
	return res, nil
}
