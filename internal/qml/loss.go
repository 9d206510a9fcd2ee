package qml

import (
	"math"

	"gonum.org/v1/gonum/stat"

	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

const (
	// AccuracyTolerance is how close a prediction must be to count as correct
	AccuracyTolerance = 1e-5

	// probabilityFloor clips probabilities before taking logarithms
	probabilityFloor = 1e-10
)

func checkBatch(targets []float64, n int) error {
	if len(targets) == 0 {
		return models.ErrEmptyBatch
	}
	if len(targets) != n {
		return models.ErrLengthMismatch
	}
	return nil
}

// SquareLoss returns the mean of (target − prediction)²
func SquareLoss(targets, predictions []float64) (float64, error) {
	if err := checkBatch(targets, len(predictions)); err != nil {
		return 0, err
	}

	sq := make([]float64, len(targets))
	for i := range targets {
		d := targets[i] - predictions[i]
		sq[i] = d * d
	}
	return stat.Mean(sq, nil), nil
}

// Accuracy returns the fraction of predictions within AccuracyTolerance of
// their target
func Accuracy(targets, predictions []float64) (float64, error) {
	if err := checkBatch(targets, len(predictions)); err != nil {
		return 0, err
	}

	hits := make([]float64, len(targets))
	for i := range targets {
		if math.Abs(targets[i]-predictions[i]) < AccuracyTolerance {
			hits[i] = 1
		}
	}
	return stat.Mean(hits, nil), nil
}

// CrossEntropy returns the mean of −log p[class] over samples, where each
// row of probs is a class distribution
func CrossEntropy(classes []int, probs [][]float64) (float64, error) {
	if len(classes) == 0 {
		return 0, models.ErrEmptyBatch
	}
	if len(classes) != len(probs) {
		return 0, models.ErrLengthMismatch
	}

	losses := make([]float64, len(classes))
	for i, c := range classes {
		if c < 0 || c >= len(probs[i]) {
			return 0, models.ErrLengthMismatch
		}
		losses[i] = -math.Log(math.Max(probs[i][c], probabilityFloor))
	}
	return stat.Mean(losses, nil), nil
}

// Sign returns −1, 0 or +1
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
