package optim

// GradientDescent applies plain gradient steps with optional L2 weight decay.
type GradientDescent struct {
	LearningRate float64
	L2           float64
}

func NewGradientDescent(lr, l2 float64) *GradientDescent {
	return &GradientDescent{LearningRate: lr, L2: l2}
}

// Step updates weights in place: w -= lr * (g + l2*w).
func (o *GradientDescent) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * (grads[i] + o.L2*weights[i])
	}
}
