package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"healthguard/pkg/dataprep"
	"healthguard/pkg/stats"
)

// SchemaVersion is the persisted format version of Schema.
const SchemaVersion = 1

// Schema is the frozen input contract of one trained classifier: the ordered
// feature names every vector must follow, at training and at inference.
//
// It is built once from the training table and persisted next to the
// classifier. It must never be rebuilt from inference-time data.
type Schema struct {
	Version      int                          `yaml:"version"`
	Disease      string                       `yaml:"disease"`
	FeatureNames []string                     `yaml:"features"`
	Means        []float64                    `yaml:"means"`
	Categories   map[string]dataprep.Category `yaml:"categories,omitempty"`
	Fingerprint  string                       `yaml:"fingerprint"`
	RunID        string                       `yaml:"run_id,omitempty"`
	TrainedAt    time.Time                    `yaml:"trained_at,omitempty"`
}

// BuildSchema freezes the feature order of a normalized table: every column
// except the target, in table order.
func BuildSchema(t *dataprep.Table) (*Schema, error) {
	names := t.Features()
	X, _, err := t.Matrix(names)
	if err != nil {
		return nil, err
	}
	means := stats.ColumnMeans(X)
	if means == nil {
		means = make([]float64, len(names))
	}

	s := &Schema{
		Version:      SchemaVersion,
		FeatureNames: names,
		Means:        means,
		Categories:   t.Categories,
		Fingerprint:  Fingerprint(names),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Fingerprint hashes an ordered list of feature names. Any change of names
// or order yields a different fingerprint.
func Fingerprint(names []string) string {
	h := sha256.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Len returns the number of features.
func (s *Schema) Len() int { return len(s.FeatureNames) }

// Index returns the position of a feature.
func (s *Schema) Index(name string) (int, bool) {
	for i, n := range s.FeatureNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// Validate checks that the schema is usable: known version, duplicate-free
// names, one mean per feature and a fingerprint matching the names.
func (s *Schema) Validate() error {
	if s.Version != SchemaVersion {
		return fmt.Errorf("schema: unsupported version %d", s.Version)
	}
	if len(s.FeatureNames) == 0 {
		return errors.New("schema: no features")
	}
	seen := make(map[string]struct{}, len(s.FeatureNames))
	for _, n := range s.FeatureNames {
		if _, dup := seen[n]; dup {
			return fmt.Errorf("schema: duplicate feature %q", n)
		}
		seen[n] = struct{}{}
	}
	if len(s.Means) != len(s.FeatureNames) {
		return fmt.Errorf("schema: %d means for %d features", len(s.Means), len(s.FeatureNames))
	}
	if s.Fingerprint != Fingerprint(s.FeatureNames) {
		return errors.New("schema: fingerprint does not match feature order")
	}
	return nil
}

// ExpandCategory sets the indicator input for a textual choice of a
// categorical source column. Choosing the reference level sets nothing, since
// the reference is encoded as all indicators at 0. Level matching ignores case.
func (s *Schema) ExpandCategory(column, level string, into RawInputs) error {
	cat, ok := s.Categories[column]
	if !ok {
		return fmt.Errorf("%q is not a categorical column", column)
	}
	if strings.EqualFold(cat.Reference, level) {
		return nil
	}
	for _, l := range cat.Levels {
		if strings.EqualFold(l, level) {
			into[dataprep.Indicator(column, l)] = 1
			return nil
		}
	}
	return fmt.Errorf("%q is not a known level of %q", level, column)
}

// HasCategory reports whether column was expanded into indicators.
func (s *Schema) HasCategory(column string) bool {
	_, ok := s.Categories[column]
	return ok
}
