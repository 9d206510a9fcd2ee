package datasets

import (
	"fmt"
	"math/rand"

	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

// Split is a train/validation partition of a dataset
type Split struct {
	Train      *Dataset
	Validation *Dataset
	// TrainIndex and ValidationIndex map split rows back to the source
	TrainIndex      []int
	ValidationIndex []int
}

// PermutationSplit shuffles sample indices with rng and assigns the first
// int(trainFraction·N) to the training set
func PermutationSplit(d *Dataset, trainFraction float64, rng *rand.Rand) (*Split, error) {
	if d == nil || d.Len() == 0 {
		return nil, models.ErrEmptyDataset
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, fmt.Errorf("train fraction must be in (0, 1), got %g", trainFraction)
	}

	numTrain := int(trainFraction * float64(d.Len()))
	if numTrain == 0 || numTrain == d.Len() {
		return nil, fmt.Errorf("train fraction %g leaves an empty split of %d samples", trainFraction, d.Len())
	}

	index := rng.Perm(d.Len())

	train, err := d.Subset(index[:numTrain])
	if err != nil {
		return nil, fmt.Errorf("failed to build training split: %w", err)
	}
	val, err := d.Subset(index[numTrain:])
	if err != nil {
		return nil, fmt.Errorf("failed to build validation split: %w", err)
	}

	return &Split{
		Train:           train,
		Validation:      val,
		TrainIndex:      index[:numTrain],
		ValidationIndex: index[numTrain:],
	}, nil
}

// TrainTestSplit is PermutationSplit with a generator seeded from seed
func TrainTestSplit(d *Dataset, trainSize float64, seed int64) (*Split, error) {
	return PermutationSplit(d, trainSize, rand.New(rand.NewSource(seed)))
}

// SampleBatch draws size indices uniformly from [0, n) with replacement
func SampleBatch(n, size int, rng *rand.Rand) ([]int, error) {
	if n <= 0 {
		return nil, models.ErrEmptyDataset
	}
	if size <= 0 {
		return nil, models.ErrEmptyBatch
	}

	batch := make([]int, size)
	for i := range batch {
		batch[i] = rng.Intn(n)
	}
	return batch, nil
}
