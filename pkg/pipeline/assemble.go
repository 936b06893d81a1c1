package pipeline

import "fmt"

// RawInputs maps clinical field names to values supplied at inference time.
// It may cover any subset of a schema, and may contain names the schema does
// not know.
type RawInputs map[string]float64

// FillPolicy decides the value of a schema position the caller did not supply.
type FillPolicy interface {
	Fill(s *Schema, i int) float64
}

// FillFunc adapts a function to FillPolicy.
type FillFunc func(s *Schema, i int) float64

func (f FillFunc) Fill(s *Schema, i int) float64 { return f(s, i) }

var (
	// ZeroFill leaves absent features at 0. Zero is not a neutral clinical
	// value (e.g. blood pressure), but it is what the trained models were
	// served with.
	ZeroFill FillPolicy = FillFunc(func(*Schema, int) float64 { return 0 })

	// MeanFill uses the training-set mean of the feature.
	MeanFill FillPolicy = FillFunc(func(s *Schema, i int) float64 {
		if i < len(s.Means) {
			return s.Means[i]
		}
		return 0
	})
)

// ParseFillPolicy resolves a policy by name: "zero" (or empty) and "mean".
func ParseFillPolicy(name string) (FillPolicy, error) {
	switch name {
	case "", "zero":
		return ZeroFill, nil
	case "mean":
		return MeanFill, nil
	default:
		return nil, fmt.Errorf("unknown fill policy %q", name)
	}
}

// Assemble builds the dense vector for a schema with zero fill: length
// |schema|, positionally aligned, unknown input names ignored.
func Assemble(inputs RawInputs, s *Schema) []float64 {
	return AssembleWith(inputs, s, ZeroFill)
}

// AssembleWith is Assemble with an explicit fill policy for absent features.
func AssembleWith(inputs RawInputs, s *Schema, fill FillPolicy) []float64 {
	vec := make([]float64, len(s.FeatureNames))
	for i, name := range s.FeatureNames {
		if v, ok := inputs[name]; ok {
			vec[i] = v
			continue
		}
		vec[i] = fill.Fill(s, i)
	}
	return vec
}
