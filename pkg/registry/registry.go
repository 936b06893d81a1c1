package registry

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"healthguard/pkg/disease"
	"healthguard/pkg/model"
	"healthguard/pkg/pipeline"
)

// NotFoundError reports that no artifact was ever saved for a disease.
type NotFoundError struct {
	Disease disease.Disease
	Key     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no trained model for %s (missing %s)", e.Disease, e.Key)
}

// ErrSchemaMismatch means the stored classifier was trained against a
// different feature order than the stored schema.
var ErrSchemaMismatch = errors.New("classifier and feature schema do not match")

// ModelKey and FeaturesKey name the two artifacts kept per disease.
func ModelKey(d disease.Disease) string    { return string(d) + "_model.gob" }
func FeaturesKey(d disease.Disease) string { return string(d) + "_features.yaml" }

// artifact is the persisted envelope around an encoded classifier. The
// fingerprint binds it to exactly one feature schema.
type artifact struct {
	Kind        string
	Fingerprint string
	RunID       string
	Payload     []byte
}

// Registry persists one classifier and its frozen schema per disease.
// Saving replaces any previous artifacts for the disease.
type Registry struct {
	store Store
}

func New(store Store) *Registry {
	return &Registry{store: store}
}

// Save writes the schema and the classifier bound to it. With a BatchStore
// neither replaces the previous pair unless both were written.
func (r *Registry) Save(ctx context.Context, d disease.Disease, m model.Model, s *pipeline.Schema) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("save %s: %w", d, err)
	}
	if dm, ok := m.(model.Dimensioned); ok && dm.NumFeatures() != s.Len() {
		return fmt.Errorf("save %s: classifier expects %d features, schema has %d: %w", d, dm.NumFeatures(), s.Len(), ErrSchemaMismatch)
	}

	kind, payload, err := model.Encode(m)
	if err != nil {
		return fmt.Errorf("save %s: %w", d, err)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(artifact{
		Kind:        kind,
		Fingerprint: s.Fingerprint,
		RunID:       s.RunID,
		Payload:     payload,
	}); err != nil {
		return fmt.Errorf("save %s: encode artifact: %w", d, err)
	}

	features, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("save %s: encode schema: %w", d, err)
	}
	blobs := []Blob{
		{Key: FeaturesKey(d), Body: features},
		{Key: ModelKey(d), Body: buf.Bytes()},
	}
	if bs, ok := r.store.(BatchStore); ok {
		if err := bs.PutAll(ctx, blobs); err != nil {
			return fmt.Errorf("save %s: %w", d, err)
		}
		return nil
	}
	// Without batching a failed second write leaves a mismatched pair, which
	// Load reports as ErrSchemaMismatch.
	for _, b := range blobs {
		if err := r.store.Put(ctx, b.Key, b.Body); err != nil {
			return fmt.Errorf("save %s: %w", d, err)
		}
	}
	return nil
}

// Load restores the classifier and schema of a disease. It fails with
// *NotFoundError when either artifact is absent and with ErrSchemaMismatch
// when they were not saved together.
func (r *Registry) Load(ctx context.Context, d disease.Disease) (model.Model, *pipeline.Schema, error) {
	raw, err := r.get(ctx, d, ModelKey(d))
	if err != nil {
		return nil, nil, err
	}
	var art artifact
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&art); err != nil {
		return nil, nil, fmt.Errorf("load %s: decode artifact: %w", d, err)
	}

	features, err := r.get(ctx, d, FeaturesKey(d))
	if err != nil {
		return nil, nil, err
	}
	s := &pipeline.Schema{}
	if err := yaml.Unmarshal(features, s); err != nil {
		return nil, nil, fmt.Errorf("load %s: decode schema: %w", d, err)
	}
	if err := s.Validate(); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", d, err)
	}
	if art.Fingerprint != s.Fingerprint {
		return nil, nil, fmt.Errorf("load %s: %w", d, ErrSchemaMismatch)
	}

	m, err := model.Decode(art.Kind, art.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", d, err)
	}
	if dm, ok := m.(model.Dimensioned); ok && dm.NumFeatures() != s.Len() {
		return nil, nil, fmt.Errorf("load %s: %w", d, ErrSchemaMismatch)
	}
	return m, s, nil
}

func (r *Registry) get(ctx context.Context, d disease.Disease, key string) ([]byte, error) {
	body, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrBlobNotFound) {
		return nil, &NotFoundError{Disease: d, Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", d, err)
	}
	return body, nil
}
