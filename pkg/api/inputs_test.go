package api

import (
	"errors"
	"testing"

	"healthguard/pkg/dataprep"
	"healthguard/pkg/disease"
	"healthguard/pkg/pipeline"
)

func TestResolveInputs(t *testing.T) {
	heart, _ := disease.Lookup(disease.HeartDisease)
	kidney, _ := disease.Lookup(disease.KidneyDisease)
	withFbs := heartSchema()
	withFbs.Categories["fbs"] = dataprep.Category{Reference: "FALSE", Levels: []string{"TRUE"}}

	tests := []struct {
		name    string
		profile disease.Profile
		schema  *pipeline.Schema
		in      map[string]any
		want    pipeline.RawInputs
	}{
		{
			name:    "reference level sets nothing",
			profile: heart,
			schema:  heartSchema(),
			in:      map[string]any{"sex": "female", "cp": "Asymptomatic"},
			want:    pipeline.RawInputs{},
		},
		{
			name:    "bool choice expands",
			profile: heart,
			schema:  withFbs,
			in:      map[string]any{"fbs": true},
			want:    pipeline.RawInputs{"fbs_TRUE": 1},
		},
		{
			name:    "numeric text",
			profile: kidney,
			schema:  heartSchema(),
			in:      map[string]any{"sg": "1.02", "hemo": 13.5},
			want:    pipeline.RawInputs{"sg": 1.02, "hemo": 13.5},
		},
		{
			name:    "unknown names never reject",
			profile: heart,
			schema:  heartSchema(),
			in: map[string]any{
				"age":   50.0,
				"note":  "hello",
				"meta":  map[string]any{"source": "form"},
				"empty": nil,
				"extra": "7",
				"flag":  true,
			},
			want: pipeline.RawInputs{"age": 50, "extra": 7, "flag": 1},
		},
		{
			name:    "choice value kept when column is numeric",
			profile: heart,
			schema:  &pipeline.Schema{FeatureNames: []string{"cp"}},
			in:      map[string]any{"cp": "Non-Anginal"},
			want:    pipeline.RawInputs{"cp": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveInputs(tt.profile, tt.schema, tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestResolveInputsRejects(t *testing.T) {
	kidney, _ := disease.Lookup(disease.KidneyDisease)
	_, err := resolveInputs(kidney, heartSchema(), map[string]any{"bp": 20.0})
	var ie *InputError
	if !errors.As(err, &ie) || ie.Field != "bp" {
		t.Fatalf("expected range error on bp, got %v", err)
	}
	if _, err := resolveInputs(kidney, heartSchema(), map[string]any{"age": nil}); err == nil {
		t.Fatal("expected error for null value")
	}
}
