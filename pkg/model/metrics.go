package model

// Accuracy is the fraction of predictions equal to the true label.
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

func BinaryPredFromProba(proba []float64, threshold float64) []float64 {
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}

// Confusion counts binary outcomes with 1 as the positive class.
type Confusion struct {
	TP, FP, TN, FN int
}

func NewConfusion(yTrue, yPred []float64) Confusion {
	var c Confusion
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			c.TP++
		case yPred[i] == 1 && yTrue[i] == 0:
			c.FP++
		case yPred[i] == 0 && yTrue[i] == 1:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

// PrecisionRecallF1 derives the usual binary scores; undefined ratios are 0.
func (c Confusion) PrecisionRecallF1() (prec, rec, f1 float64) {
	if c.TP+c.FP > 0 {
		prec = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		rec = float64(c.TP) / float64(c.TP+c.FN)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}
