package qml

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaskrrish/Go-QML/internal/quantum"
	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

func newToyVQC(t *testing.T, config VQCConfig) *VQC {
	t.Helper()

	v, err := NewVQC(config, quantum.NewSimulatorBackend(), rand.New(rand.NewSource(123)), zerolog.Nop())
	require.NoError(t, err)
	return v
}

// fixedBackend reports the same distribution for every circuit
type fixedBackend struct {
	*quantum.SimulatorBackend
	probs []float64
}

func (b fixedBackend) Probabilities(*quantum.Circuit) ([]float64, error) {
	return append([]float64(nil), b.probs...), nil
}

// cancellingBackend cancels its context after a number of circuit runs
type cancellingBackend struct {
	*quantum.SimulatorBackend
	cancel func()
	after  int
	calls  int
}

func (b *cancellingBackend) Probabilities(c *quantum.Circuit) ([]float64, error) {
	b.calls++
	if b.calls == b.after {
		b.cancel()
	}
	return b.SimulatorBackend.Probabilities(c)
}

func toyVQCData() ([][]float64, []int) {
	X := [][]float64{
		{0.1, 0.2}, {0.2, 0.1}, {0.15, 0.25},
		{2.9, 3.0}, {3.0, 2.8}, {2.8, 2.9},
	}
	y := []int{0, 0, 0, 1, 1, 1}
	return X, y
}

func TestVQCConfigValidate(t *testing.T) {
	require.NoError(t, DefaultVQCConfig(4, 3).Validate())

	tests := []struct {
		name   string
		config VQCConfig
	}{
		{"No features", VQCConfig{NumFeatures: 0, NumClasses: 2, FeatureReps: 1, AnsatzReps: 1, MaxEvaluations: 10}},
		{"One class", VQCConfig{NumFeatures: 2, NumClasses: 1, FeatureReps: 1, AnsatzReps: 1, MaxEvaluations: 10}},
		{"Too many classes", VQCConfig{NumFeatures: 2, NumClasses: 5, FeatureReps: 1, AnsatzReps: 1, MaxEvaluations: 10}},
		{"No evaluations", VQCConfig{NumFeatures: 2, NumClasses: 2, FeatureReps: 1, AnsatzReps: 1, MaxEvaluations: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.config.Validate(), models.ErrInvalidConfig)
		})
	}
}

func TestVQCClassProbabilities(t *testing.T) {
	v := newToyVQC(t, DefaultVQCConfig(3, 3))
	assert.Len(t, v.Parameters(), 3*4)

	probs, err := v.ClassProbabilities([]float64{0.3, 1.2, 2.5}, v.Parameters())
	require.NoError(t, err)
	require.Len(t, probs, 3)

	sum := 0.0
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	_, err = v.ClassProbabilities([]float64{0.3}, v.Parameters())
	assert.ErrorIs(t, err, models.ErrLengthMismatch)
}

func TestVQCClassReadoutIsLittleEndian(t *testing.T) {
	// basis state |q0 q1⟩ = |10⟩ is integer 1 when qubit 0 is the low bit
	backend := fixedBackend{SimulatorBackend: quantum.NewSimulatorBackend(), probs: []float64{0, 0, 1, 0}}
	v, err := NewVQC(DefaultVQCConfig(2, 2), backend, rand.New(rand.NewSource(1)), zerolog.Nop())
	require.NoError(t, err)

	probs, err := v.ClassProbabilities([]float64{0.1, 0.2}, v.Parameters())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, probs)

	tests := []struct {
		index, numQubits, expected int
	}{
		{0, 3, 0},
		{1, 3, 4},
		{4, 3, 1},
		{6, 3, 3},
		{2, 2, 1},
		{5, 4, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, littleEndian(tt.index, tt.numQubits), "index %d on %d qubits", tt.index, tt.numQubits)
	}
}

func TestVQCFit(t *testing.T) {
	config := DefaultVQCConfig(2, 2)
	config.AnsatzReps = 1
	config.MaxEvaluations = 40
	v := newToyVQC(t, config)
	X, y := toyVQCData()

	_, err := v.Predict(X)
	assert.ErrorIs(t, err, models.ErrNotFitted)

	require.NoError(t, v.Fit(context.Background(), X, y))
	assert.Positive(t, v.Evaluations)
	require.NotEmpty(t, v.LossHistory)

	final, err := v.Loss(X, y, v.Parameters())
	require.NoError(t, err)
	assert.LessOrEqual(t, final, v.LossHistory[0]+1e-12)

	pred, err := v.Predict(X)
	require.NoError(t, err)
	require.Len(t, pred, len(X))
	for _, c := range pred {
		assert.Contains(t, []int{0, 1}, c)
	}

	score, err := v.Score(X, y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestVQCFitErrors(t *testing.T) {
	config := DefaultVQCConfig(2, 2)
	config.MaxEvaluations = 5
	X, y := toyVQCData()

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, newToyVQC(t, config).Fit(ctx, X, y), context.Canceled)
	})

	t.Run("Cancelled during optimization", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		long := DefaultVQCConfig(2, 2)
		long.MaxEvaluations = 200
		backend := &cancellingBackend{SimulatorBackend: quantum.NewSimulatorBackend(), cancel: cancel, after: 20}
		v, err := NewVQC(long, backend, rand.New(rand.NewSource(123)), zerolog.Nop())
		require.NoError(t, err)

		assert.ErrorIs(t, v.Fit(ctx, X, y), context.Canceled)
		assert.Less(t, v.Evaluations, 10)

		_, err = v.Predict(X)
		assert.ErrorIs(t, err, models.ErrNotFitted)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.ErrorIs(t, newToyVQC(t, config).Fit(context.Background(), nil, nil), models.ErrEmptyDataset)
	})

	t.Run("Label count", func(t *testing.T) {
		assert.ErrorIs(t, newToyVQC(t, config).Fit(context.Background(), X, y[:2]), models.ErrLengthMismatch)
	})

	t.Run("Class out of range", func(t *testing.T) {
		bad := append([]int(nil), y...)
		bad[0] = 2
		assert.Error(t, newToyVQC(t, config).Fit(context.Background(), X, bad))
	})

	t.Run("Feature count", func(t *testing.T) {
		assert.ErrorIs(t, newToyVQC(t, config).Fit(context.Background(), [][]float64{{1, 2, 3}}, []int{0}), models.ErrLengthMismatch)
	})
}

func TestClassLabels(t *testing.T) {
	labels, err := ClassLabels([]float64{0, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1}, labels)

	_, err = ClassLabels([]float64{0, 0.5})
	assert.Error(t, err)

	_, err = ClassLabels([]float64{-1})
	assert.Error(t, err)
}
