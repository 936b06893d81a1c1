package disease

import "healthguard/pkg/dataprep"

// Field describes one input collected from the caller at inference time.
// Column is the normalized feature (or categorical source column) the value
// feeds; it defaults to Name.
type Field struct {
	Name    string   `json:"name"`
	Column  string   `json:"column,omitempty"`
	Label   string   `json:"label"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Default float64  `json:"default"`
	Options []Option `json:"options,omitempty"`
}

// Option is one choice of a selectable field. Level is the dataset category
// the choice corresponds to when the source column was expanded into indicators.
type Option struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Level string  `json:"level,omitempty"`
}

// Feature returns the column name the field writes to.
func (f Field) Feature() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// InRange reports whether v lies within the documented valid range.
func (f Field) InRange(v float64) bool {
	return v >= f.Min && v <= f.Max
}

// Profile bundles everything that differs between diseases: where the raw
// dataset lives, how it is normalized, how long the classifier may iterate
// and which inputs the prediction form collects.
type Profile struct {
	Disease Disease
	Dataset string
	Rules   dataprep.Rules
	MaxIter int
	Fields  []Field
}

// Lookup returns the profile for d.
func Lookup(d Disease) (Profile, bool) {
	p, ok := profiles[d]
	return p, ok
}

// Field finds a form field by name.
func (p Profile) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// kidneySentinels are compared after folding, so they cover the usual
// upper-case spellings ("NA", "N/A", "NULL", "#N/A") too.
var kidneySentinels = []string{
	"?", "nan", "none", "",
	"na", "n/a", "null", "#n/a", "#na", "<na>", "-nan", "#n/a n/a",
	"1.#ind", "-1.#ind", "1.#qnan", "-1.#qnan",
}

var profiles = map[Disease]Profile{
	Diabetes: {
		Disease: Diabetes,
		Dataset: "diabetes.csv",
		Rules: dataprep.Rules{
			Name:         string(Diabetes),
			Target:       "Outcome",
			DeriveTarget: dataprep.BinaryTarget,
			Sentinels:    dataprep.DefaultSentinels,
			NumericShare: 1,
		},
		MaxIter: 1000,
		Fields: []Field{
			{Name: "pregnancies", Column: "Pregnancies", Label: "Pregnancies", Min: 0, Max: 20, Default: 0},
			{Name: "glucose", Column: "Glucose", Label: "Glucose Level", Min: 0, Max: 300, Default: 120},
			{Name: "bp", Column: "BloodPressure", Label: "Blood Pressure", Min: 0, Max: 200, Default: 70},
			{Name: "skin", Column: "SkinThickness", Label: "Skin Thickness", Min: 0, Max: 100, Default: 20},
			{Name: "insulin", Column: "Insulin", Label: "Insulin", Min: 0, Max: 900, Default: 80},
			{Name: "bmi", Column: "BMI", Label: "BMI", Min: 0, Max: 70, Default: 25},
			{Name: "dpf", Column: "DiabetesPedigreeFunction", Label: "Diabetes Pedigree Function", Min: 0, Max: 3, Default: 0.5},
			{Name: "age", Column: "Age", Label: "Age", Min: 1, Max: 120, Default: 30},
		},
	},
	HeartDisease: {
		Disease: HeartDisease,
		Dataset: "heart.csv",
		Rules: dataprep.Rules{
			Name:         string(HeartDisease),
			Target:       "num",
			TargetName:   "target",
			DeriveTarget: dataprep.PositiveTarget,
			Drop:         []string{"id", "dataset", "num"},
			Sentinels:    dataprep.DefaultSentinels,
			Expand:       true,
			NumericShare: 1,
		},
		MaxIter: 2000,
		Fields: []Field{
			{Name: "age", Label: "Age", Min: 1, Max: 120, Default: 50},
			{Name: "sex", Label: "Sex", Min: 0, Max: 1, Default: 1, Options: []Option{
				{Label: "Male", Value: 1, Level: "Male"},
				{Label: "Female", Value: 0, Level: "Female"},
			}},
			{Name: "cp", Label: "Chest Pain Type (0-3)", Min: 0, Max: 3, Default: 1, Options: []Option{
				{Label: "Typical Angina", Value: 0, Level: "typical angina"},
				{Label: "Atypical Angina", Value: 1, Level: "atypical angina"},
				{Label: "Non-Anginal", Value: 2, Level: "non-anginal"},
				{Label: "Asymptomatic", Value: 3, Level: "asymptomatic"},
			}},
			{Name: "trestbps", Label: "Resting Blood Pressure", Min: 80, Max: 200, Default: 120},
			{Name: "chol", Label: "Cholesterol", Min: 100, Max: 600, Default: 200},
			{Name: "fbs", Label: "Fasting Blood Sugar > 120", Min: 0, Max: 1, Default: 0, Options: []Option{
				{Label: "No", Value: 0, Level: "FALSE"},
				{Label: "Yes", Value: 1, Level: "TRUE"},
			}},
			{Name: "restecg", Label: "Rest ECG (0-2)", Min: 0, Max: 2, Default: 1, Options: []Option{
				{Label: "Normal", Value: 0, Level: "normal"},
				{Label: "ST-T Abnormality", Value: 1, Level: "st-t abnormality"},
				{Label: "LV Hypertrophy", Value: 2, Level: "lv hypertrophy"},
			}},
			{Name: "thalach", Column: "thalch", Label: "Max Heart Rate", Min: 60, Max: 220, Default: 150},
			{Name: "exang", Label: "Exercise Induced Angina", Min: 0, Max: 1, Default: 0, Options: []Option{
				{Label: "No", Value: 0, Level: "FALSE"},
				{Label: "Yes", Value: 1, Level: "TRUE"},
			}},
		},
	},
	KidneyDisease: {
		Disease: KidneyDisease,
		Dataset: "kidney.csv",
		Rules: dataprep.Rules{
			Name:         string(KidneyDisease),
			Target:       "classification",
			DeriveTarget: dataprep.LabelTarget("ckd"),
			Drop:         []string{"id"},
			Sentinels:    kidneySentinels,
			Fold:         true,
			Expand:       true,
			NumericShare: 0.5,
		},
		MaxIter: 3000,
		Fields: []Field{
			{Name: "age", Label: "Age", Min: 1, Max: 120, Default: 45},
			{Name: "bp", Label: "Blood Pressure", Min: 50, Max: 200, Default: 80},
			{Name: "sg", Label: "Specific Gravity", Min: 1.000, Max: 1.030, Default: 1.020},
			{Name: "al", Label: "Albumin (0-5)", Min: 0, Max: 5, Default: 1},
			{Name: "su", Label: "Sugar (0-5)", Min: 0, Max: 5, Default: 0},
			{Name: "bgr", Label: "Blood Glucose Random", Min: 70, Max: 500, Default: 120},
			{Name: "bu", Label: "Blood Urea", Min: 10, Max: 400, Default: 40},
			{Name: "sc", Label: "Serum Creatinine", Min: 0.1, Max: 15, Default: 1.2},
			{Name: "hemo", Label: "Hemoglobin", Min: 3, Max: 20, Default: 13},
		},
	},
}
