package dataprep

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"healthguard/pkg/data"
)

var (
	diabetesRules = Rules{
		Name:         "diabetes",
		Target:       "Outcome",
		DeriveTarget: BinaryTarget,
		Sentinels:    DefaultSentinels,
		NumericShare: 1,
	}
	heartRules = Rules{
		Name:         "heart",
		Target:       "num",
		TargetName:   "target",
		DeriveTarget: PositiveTarget,
		Drop:         []string{"id", "dataset", "num"},
		Sentinels:    DefaultSentinels,
		Expand:       true,
		NumericShare: 1,
	}
	kidneyRules = Rules{
		Name:         "kidney",
		Target:       "classification",
		DeriveTarget: LabelTarget("ckd"),
		Drop:         []string{"id"},
		Sentinels:    []string{"?", "nan", "none", ""},
		Fold:         true,
		Expand:       true,
		NumericShare: 0.5,
	}
)

func mustParse(t *testing.T, csv string) *data.Records {
	t.Helper()
	recs, err := data.ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return recs
}

func column(t *testing.T, tbl *Table, name string) []float64 {
	t.Helper()
	col, err := tbl.Column(name)
	if err != nil {
		t.Fatalf("column %q: %v", name, err)
	}
	return col
}

func assertInvariants(t *testing.T, tbl *Table) {
	t.Helper()
	y := column(t, tbl, tbl.Target)
	for i, v := range y {
		if v != 0 && v != 1 {
			t.Fatalf("row %d: target %v not binary", i, v)
		}
	}
	for i, row := range tbl.Rows {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("row %d col %s: non-finite %v", i, tbl.Columns[j], v)
			}
		}
	}
}

func TestNormalizeDiabetesMeanFill(t *testing.T) {
	recs := mustParse(t, "Glucose,BMI,Outcome\n100,20,0\n,30,1\n200,,0\n")
	tbl, err := Normalize(recs, diabetesRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertInvariants(t, tbl)

	if want := []string{"Glucose", "BMI", "Outcome"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("expected columns %v, got %v", want, tbl.Columns)
	}
	if got := column(t, tbl, "Glucose"); got[1] != 150 {
		t.Fatalf("expected glucose mean fill 150, got %v", got)
	}
	if got := column(t, tbl, "BMI"); got[2] != 25 {
		t.Fatalf("expected bmi mean fill 25, got %v", got)
	}
	if !reflect.DeepEqual(tbl.Features(), []string{"Glucose", "BMI"}) {
		t.Fatalf("unexpected features %v", tbl.Features())
	}
}

func TestNormalizeDiabetesRejectsText(t *testing.T) {
	recs := mustParse(t, "Glucose,Outcome\nhigh,0\n100,1\n")
	_, err := Normalize(recs, diabetesRules)
	var se *SchemaError
	if !errors.As(err, &se) || se.Column != "Glucose" || se.Disease != "diabetes" {
		t.Fatalf("expected schema error on Glucose, got %v", err)
	}
}

func TestNormalizeAllMissingColumnFillsZero(t *testing.T) {
	recs := mustParse(t, "Insulin,Outcome\n,0\nNA,1\n")
	tbl, err := Normalize(recs, diabetesRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := column(t, tbl, "Insulin"); got[0] != 0 || got[1] != 0 {
		t.Fatalf("expected all-missing column to fill with 0, got %v", got)
	}
}

func TestNormalizeHeart(t *testing.T) {
	recs := mustParse(t, strings.Join([]string{
		"id,age,sex,dataset,cp,chol,num",
		"1,63,Male,Cleveland,typical angina,233,0",
		"2,67,Female,Cleveland,asymptomatic,,2",
		"3,41,Male,Hungary,,204,1",
		"4,56,Male,VA,atypical angina,236,",
	}, "\n"))
	tbl, err := Normalize(recs, heartRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertInvariants(t, tbl)

	want := []string{
		"age", "chol", "target",
		"sex_Male",
		"cp_atypical angina", "cp_typical angina",
	}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("expected columns %v, got %v", want, tbl.Columns)
	}
	if got := column(t, tbl, "target"); !reflect.DeepEqual(got, []float64{0, 1, 1, 0}) {
		t.Fatalf("unexpected target %v", got)
	}
	if got := column(t, tbl, "chol"); math.Abs(got[1]-(233.0+204+236)/3) > 1e-9 {
		t.Fatalf("expected chol mean fill, got %v", got)
	}
	if got := column(t, tbl, "sex_Male"); !reflect.DeepEqual(got, []float64{1, 0, 1, 1}) {
		t.Fatalf("unexpected sex indicator %v", got)
	}
	// row 3 has no chest pain value: every cp indicator is 0.
	if column(t, tbl, "cp_atypical angina")[2] != 0 || column(t, tbl, "cp_typical angina")[2] != 0 {
		t.Fatal("expected missing category to produce zero indicators")
	}
	cat := tbl.Categories["cp"]
	if cat.Reference != "asymptomatic" || !reflect.DeepEqual(cat.Levels, []string{"atypical angina", "typical angina"}) {
		t.Fatalf("unexpected cp category %+v", cat)
	}
	for _, dropped := range []string{"id", "dataset", "num"} {
		if tbl.Index(dropped) >= 0 {
			t.Fatalf("expected %q to be dropped", dropped)
		}
	}
}

func TestNormalizeKidneyTargetFolding(t *testing.T) {
	recs := mustParse(t, strings.Join([]string{
		"id,age,rbc,pcv,classification",
		"0,48,normal,44, CKD",
		"1,7,?,38,notckd",
		"2,62,abnormal,\t?,ckd\t",
		"3,,Normal,x31,notckd",
	}, "\n"))
	tbl, err := Normalize(recs, kidneyRules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertInvariants(t, tbl)

	if got := column(t, tbl, "classification"); !reflect.DeepEqual(got, []float64{1, 0, 1, 0}) {
		t.Fatalf("unexpected classification %v", got)
	}
	if got := column(t, tbl, "age"); got[3] != (48.0+7+62)/3 {
		t.Fatalf("expected age mean fill, got %v", got)
	}
	// pcv is numeric by majority; "?" and the unparseable "x31" are coerced to missing.
	if got := column(t, tbl, "pcv"); got[2] != 41 || got[3] != 41 {
		t.Fatalf("expected pcv coercion and mean fill, got %v", got)
	}
	want := []string{"age", "pcv", "classification", "rbc_normal"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("expected columns %v, got %v", want, tbl.Columns)
	}
	if got := column(t, tbl, "rbc_normal"); !reflect.DeepEqual(got, []float64{1, 0, 0, 1}) {
		t.Fatalf("expected folded levels to merge, got %v", got)
	}
}

func TestNormalizeDeterministicOrder(t *testing.T) {
	csv := "id,a,b,c,num\n1,x,1,q,0\n2,y,2,p,1\n3,z,3,r,0\n"
	first, err := Normalize(mustParse(t, csv), heartRules)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := Normalize(mustParse(t, csv), heartRules)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first.Columns, again.Columns) || !reflect.DeepEqual(first.Rows, again.Rows) {
			t.Fatalf("normalization is not reproducible: %v vs %v", first.Columns, again.Columns)
		}
	}
}

func TestNormalizeSchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		csv   string
		rules Rules
	}{
		{"missing target", "a,b\n1,2\n", diabetesRules},
		{"non-binary target", "a,Outcome\n1,2\n", diabetesRules},
		{"missing target value", "a,Outcome\n1,\n", diabetesRules},
		{"non-numeric severity", "id,age,dataset,num\n1,2,x,high\n", heartRules},
		{"no rows", "a,Outcome\n", diabetesRules},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(mustParse(t, tt.csv), tt.rules)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
		})
	}
}

func TestTableMatrix(t *testing.T) {
	tbl := &Table{
		Columns: []string{"a", "y", "b"},
		Rows:    [][]float64{{1, 0, 2}, {3, 1, 4}},
		Target:  "y",
	}
	X, Y, err := tbl.Matrix([]string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(X, [][]float64{{2, 1}, {4, 3}}) || !reflect.DeepEqual(Y, []float64{0, 1}) {
		t.Fatalf("unexpected matrix %v %v", X, Y)
	}
	if _, _, err := tbl.Matrix([]string{"zzz"}); err == nil {
		t.Fatal("expected error for unknown feature")
	}
}
