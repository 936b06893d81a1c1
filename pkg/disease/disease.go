package disease

import (
	"fmt"
	"strings"
)

// Disease identifies one of the independently trained classifiers.
type Disease string

const (
	Diabetes      Disease = "diabetes"
	HeartDisease  Disease = "heart"
	KidneyDisease Disease = "kidney"
)

// All returns every supported disease in training order.
func All() []Disease {
	return []Disease{Diabetes, HeartDisease, KidneyDisease}
}

// Parse accepts the identifier ("heart") or the display title ("Heart Disease").
func Parse(s string) (Disease, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range All() {
		if key == string(d) || key == strings.ToLower(d.Title()) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown disease %q", s)
}

func (d Disease) String() string { return string(d) }

// Title is the human readable name used in risk messages.
func (d Disease) Title() string {
	switch d {
	case Diabetes:
		return "Diabetes"
	case HeartDisease:
		return "Heart Disease"
	case KidneyDisease:
		return "Kidney Disease"
	default:
		return string(d)
	}
}

// RiskText renders a predicted label the way the prediction form reports it.
func (d Disease) RiskText(label int) string {
	if label == 1 {
		return "High Risk of " + d.Title()
	}
	return "No " + d.Title() + " Detected"
}
