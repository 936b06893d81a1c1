package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"healthguard/pkg/dataprep"
	"healthguard/pkg/disease"
	"healthguard/pkg/pipeline"
	"healthguard/pkg/predict"
	"healthguard/pkg/registry"
)

type fakeDB struct {
	err error
}

func (f fakeDB) Ping(ctx context.Context) error {
	return f.err
}

type fakePredictor struct {
	schema *pipeline.Schema
	got    pipeline.RawInputs
}

func (f *fakePredictor) Schema(context.Context, disease.Disease) (*pipeline.Schema, error) {
	return f.schema, nil
}

func (f *fakePredictor) Predict(_ context.Context, d disease.Disease, in pipeline.RawInputs) (*predict.Result, error) {
	f.got = in
	pct := 72.5
	return &predict.Result{Disease: d, Label: 1, Risk: d.RiskText(1), Probability: &pct}, nil
}

func heartSchema() *pipeline.Schema {
	names := []string{"age", "trestbps", "chol", "thalch", "sex_Male", "cp_atypical angina", "cp_non-anginal", "cp_typical angina"}
	return &pipeline.Schema{
		Version:      pipeline.SchemaVersion,
		Disease:      "heart",
		FeatureNames: names,
		Means:        make([]float64, len(names)),
		Fingerprint:  pipeline.Fingerprint(names),
		Categories: map[string]dataprep.Category{
			"sex": {Reference: "Female", Levels: []string{"Male"}},
			"cp":  {Reference: "asymptomatic", Levels: []string{"atypical angina", "non-anginal", "typical angina"}},
		},
	}
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRouterHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(&fakePredictor{}, fakeDB{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterReadyz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		db   HealthChecker
		code int
	}{
		{"no database", nil, http.StatusOK},
		{"healthy", fakeDB{}, http.StatusOK},
		{"unhealthy", fakeDB{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(&fakePredictor{}, tt.db)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/readyz", nil)
			router.ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouterListsDiseases(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(&fakePredictor{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/diseases", nil)
	router.ServeHTTP(w, req)

	var got []diseaseInfo
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 || got[1].ID != disease.HeartDisease || got[1].Title != "Heart Disease" {
		t.Fatalf("unexpected catalogue: %+v", got)
	}
	if len(got[2].Fields) != 9 {
		t.Fatalf("expected 9 kidney fields, got %d", len(got[2].Fields))
	}
}

func TestRouterPredict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fp := &fakePredictor{schema: heartSchema()}
	router := NewRouter(fp, nil)

	w := post(router, "/api/predict/heart", `{"inputs": {"age": 63, "sex": "Male", "cp": 2, "thalach": 150, "chol": 233, "extra": 7, "note": "x1", "meta": {"a": 1}, "blank": null}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	want := pipeline.RawInputs{"age": 63, "sex_Male": 1, "cp_non-anginal": 1, "thalch": 150, "chol": 233, "extra": 7}
	if len(fp.got) != len(want) {
		t.Fatalf("resolved %v, want %v", fp.got, want)
	}
	for k, v := range want {
		if fp.got[k] != v {
			t.Fatalf("resolved %v, want %v", fp.got, want)
		}
	}

	var res predict.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Risk != "High Risk of Heart Disease" || res.Probability == nil || *res.Probability != 72.5 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRouterPredictErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"unknown disease", "/api/predict/flu", `{"inputs": {}}`, http.StatusNotFound},
		{"bad json", "/api/predict/heart", `{"inputs": `, http.StatusBadRequest},
		{"missing inputs", "/api/predict/heart", `{}`, http.StatusBadRequest},
		{"out of range", "/api/predict/heart", `{"inputs": {"age": 300}}`, http.StatusBadRequest},
		{"unknown level", "/api/predict/heart", `{"inputs": {"cp": "sharp"}}`, http.StatusBadRequest},
		{"wrong type", "/api/predict/heart", `{"inputs": {"age": [1]}}`, http.StatusBadRequest},
	}
	router := NewRouter(&fakePredictor{schema: heartSchema()}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := post(router, tt.path, tt.body); w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouterPredictUntrained(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := predict.NewService(registry.New(registry.NewFileStore(t.TempDir())))
	router := NewRouter(svc, nil)

	w := post(router, "/api/predict/diabetes", `{"inputs": {"glucose": 120}}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "model unavailable") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestLimitBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limitBodySize(10))
	router.POST("/echo", func(c *gin.Context) {
		_, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("within limit", func(t *testing.T) {
		if w := post(router, "/echo", "12345"); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		if w := post(router, "/echo", "01234567890"); w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", w.Code)
		}
	})
}
