package api

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"healthguard/pkg/disease"
	"healthguard/pkg/pipeline"
)

// InputError rejects one submitted field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string { return e.Field + ": " + e.Reason }

// resolveInputs turns a submitted form into RawInputs for the schema.
//
// Catalogued fields are range checked and written to their dataset column.
// A selectable field whose column was expanded into indicators sets the
// indicator of the chosen level instead. Names outside the catalogue pass
// through untouched and are ignored by assembly when the schema lacks them;
// such a name with a non-numeric value is dropped rather than rejected.
func resolveInputs(p disease.Profile, s *pipeline.Schema, in map[string]any) (pipeline.RawInputs, error) {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(pipeline.RawInputs, len(in))
	for _, name := range names {
		field, known := p.Field(name)
		if !known {
			if !s.HasCategory(name) {
				passThrough(name, in[name], out)
				continue
			}
			field = disease.Field{Name: name}
		}
		var err error
		switch v := in[name].(type) {
		case float64:
			err = setNumber(field, known, s, v, out)
		case bool:
			n := 0.0
			if v {
				n = 1
			}
			err = setNumber(field, known, s, n, out)
		case string:
			err = setText(field, known, s, strings.TrimSpace(v), out)
		default:
			err = &InputError{Field: name, Reason: "must be a number or a string"}
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func passThrough(name string, v any, out pipeline.RawInputs) {
	switch v := v.(type) {
	case float64:
		out[name] = v
	case bool:
		if v {
			out[name] = 1
		} else {
			out[name] = 0
		}
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			out[name] = n
		}
	}
}

func setNumber(f disease.Field, known bool, s *pipeline.Schema, v float64, out pipeline.RawInputs) error {
	if known && !f.InRange(v) {
		return &InputError{Field: f.Name, Reason: fmt.Sprintf("must be between %g and %g", f.Min, f.Max)}
	}
	col := f.Feature()
	if !s.HasCategory(col) {
		out[col] = v
		return nil
	}
	for _, opt := range f.Options {
		if opt.Value == v {
			return expand(f, s, opt.Level, out)
		}
	}
	return &InputError{Field: f.Name, Reason: fmt.Sprintf("%g is not a valid choice", v)}
}

func setText(f disease.Field, known bool, s *pipeline.Schema, v string, out pipeline.RawInputs) error {
	col := f.Feature()
	for _, opt := range f.Options {
		if strings.EqualFold(opt.Label, v) || strings.EqualFold(opt.Level, v) {
			if s.HasCategory(col) {
				return expand(f, s, opt.Level, out)
			}
			out[col] = opt.Value
			return nil
		}
	}
	if s.HasCategory(col) {
		if n, err := strconv.ParseFloat(v, 64); err == nil && len(f.Options) > 0 {
			return setNumber(f, known, s, n, out)
		}
		return expand(f, s, v, out)
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return &InputError{Field: f.Name, Reason: fmt.Sprintf("%q is not a number", v)}
	}
	return setNumber(f, known, s, n, out)
}

func expand(f disease.Field, s *pipeline.Schema, level string, out pipeline.RawInputs) error {
	if err := s.ExpandCategory(f.Feature(), level, out); err != nil {
		return &InputError{Field: f.Name, Reason: err.Error()}
	}
	return nil
}
