package loader

import (
	"math"
	"math/rand"
)

// SplitIndices partitions n row indices into train and test sets. The
// partition depends only on n, testRatio and seed: the first
// ceil(n*testRatio) positions of a seeded permutation are the test set.
func SplitIndices(n int, testRatio float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest > n {
		nTest = n
	}
	return indices[nTest:], indices[:nTest]
}

// TrainTestSplit splits X, Y into reproducible train and test sets by ratio.
func TrainTestSplit(X [][]float64, Y []float64, testRatio float64, seed int64) (XTrain, XTest [][]float64, YTrain, YTest []float64) {
	train, test := SplitIndices(len(X), testRatio, seed)
	for _, i := range train {
		XTrain = append(XTrain, X[i])
		YTrain = append(YTrain, Y[i])
	}
	for _, i := range test {
		XTest = append(XTest, X[i])
		YTest = append(YTest, Y[i])
	}
	return
}
