package qml

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/jaskrrish/Go-QML/internal/quantum"
	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

// VQCConfig describes the circuit and optimizer of a VQC
type VQCConfig struct {
	NumFeatures int
	NumClasses  int
	FeatureReps int
	AnsatzReps  int
	// MaxEvaluations bounds the number of loss evaluations during Fit
	MaxEvaluations int
}

// DefaultVQCConfig mirrors a ZZ feature map with one repetition, a
// RealAmplitudes ansatz with three, and a budget of 100 evaluations
func DefaultVQCConfig(numFeatures, numClasses int) VQCConfig {
	return VQCConfig{
		NumFeatures:    numFeatures,
		NumClasses:     numClasses,
		FeatureReps:    1,
		AnsatzReps:     3,
		MaxEvaluations: 100,
	}
}

// Validate rejects configurations that cannot build a circuit
func (c VQCConfig) Validate() error {
	if c.NumFeatures < 1 || c.FeatureReps < 1 || c.AnsatzReps < 0 || c.MaxEvaluations < 1 {
		return fmt.Errorf("%w: feature count, reps and evaluation budget must be positive", models.ErrInvalidConfig)
	}
	if c.NumClasses < 2 || c.NumClasses > 1<<c.NumFeatures {
		return fmt.Errorf("%w: %d classes cannot be read from %d qubits", models.ErrInvalidConfig, c.NumClasses, c.NumFeatures)
	}
	return nil
}

// VQC is a variational quantum classifier: a ZZ feature map followed by a
// RealAmplitudes ansatz on one qubit per feature. A basis state votes for
// class k mod NumClasses, where k is its index read with qubit 0 as the
// least significant bit.
type VQC struct {
	config  VQCConfig
	backend quantum.Backend
	rng     *rand.Rand
	log     zerolog.Logger
	theta   []float64
	fitted  bool

	// Evaluations counts loss evaluations made by the last Fit
	Evaluations int
	// LossHistory holds every loss value seen by the last Fit
	LossHistory []float64
}

// NewVQC creates an unfitted classifier. The initial ansatz parameters are
// drawn uniformly from [0, 1) with rng.
func NewVQC(config VQCConfig, backend quantum.Backend, rng *rand.Rand, log zerolog.Logger) (*VQC, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	theta := make([]float64, quantum.RealAmplitudesParams(config.NumFeatures, config.AnsatzReps))
	for i := range theta {
		theta[i] = rng.Float64()
	}

	return &VQC{
		config:  config,
		backend: backend,
		rng:     rng,
		log:     log,
		theta:   theta,
	}, nil
}

// Parameters returns a copy of the ansatz parameters
func (v *VQC) Parameters() []float64 {
	return append([]float64(nil), v.theta...)
}

// Circuit builds the feature map for x followed by the ansatz with theta
func (v *VQC) Circuit(x, theta []float64) (*quantum.Circuit, error) {
	if len(x) != v.config.NumFeatures {
		return nil, fmt.Errorf("%w: expected %d features, got %d", models.ErrLengthMismatch, v.config.NumFeatures, len(x))
	}

	fm, err := quantum.ZZFeatureMap(x, v.config.FeatureReps)
	if err != nil {
		return nil, err
	}
	ansatz, err := quantum.RealAmplitudes(v.config.NumFeatures, v.config.AnsatzReps, theta)
	if err != nil {
		return nil, err
	}

	return fm.Compose(ansatz), nil
}

// ClassProbabilities folds the basis-state distribution into class scores
func (v *VQC) ClassProbabilities(x, theta []float64) ([]float64, error) {
	c, err := v.Circuit(x, theta)
	if err != nil {
		return nil, err
	}
	probs, err := v.backend.Probabilities(c)
	if err != nil {
		return nil, err
	}

	classes := make([]float64, v.config.NumClasses)
	for i, p := range probs {
		classes[littleEndian(i, c.NumQubits)%v.config.NumClasses] += p
	}
	return classes, nil
}

// littleEndian re-reads basis index i with qubit 0 as the least significant
// bit, the order class readouts are defined in
func littleEndian(i, numQubits int) int {
	out := 0
	for q := 0; q < numQubits; q++ {
		out = out<<1 | (i>>q)&1
	}
	return out
}

// Loss returns the mean cross-entropy of theta over the samples
func (v *VQC) Loss(X [][]float64, y []int, theta []float64) (float64, error) {
	probs := make([][]float64, len(X))
	for i, x := range X {
		p, err := v.ClassProbabilities(x, theta)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		probs[i] = p
	}
	return CrossEntropy(y, probs)
}

// Fit minimizes the cross-entropy loss with Nelder–Mead, bounded by
// MaxEvaluations loss evaluations. Cancelling ctx stops the optimizer after
// the current evaluation and leaves the model unfitted.
func (v *VQC) Fit(ctx context.Context, X [][]float64, y []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(X) == 0 {
		return models.ErrEmptyDataset
	}
	if len(X) != len(y) {
		return models.ErrLengthMismatch
	}
	for i, c := range y {
		if c < 0 || c >= v.config.NumClasses {
			return fmt.Errorf("sample %d: class %d outside [0, %d)", i, c, v.config.NumClasses)
		}
	}
	if _, err := v.Loss(X[:1], y[:1], v.theta); err != nil {
		return err
	}

	v.Evaluations = 0
	v.LossHistory = v.LossHistory[:0]

	var evalErr error
	problem := optimize.Problem{
		Func: func(theta []float64) float64 {
			loss, err := v.Loss(X, y, theta)
			if err != nil && evalErr == nil {
				evalErr = err
			}
			v.Evaluations++
			v.LossHistory = append(v.LossHistory, loss)
			v.log.Debug().Int("evaluation", v.Evaluations).Float64("loss", loss).Msg("VQC loss evaluated")
			return loss
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: v.config.MaxEvaluations,
		Recorder:        contextRecorder{ctx: ctx},
	}

	result, err := optimize.Minimize(problem, v.Parameters(), settings, &optimize.NelderMead{})
	if evalErr != nil {
		return fmt.Errorf("loss evaluation failed: %w", evalErr)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("optimizer failed: %w", err)
	}
	if err != nil {
		v.log.Warn().Err(err).Str("status", result.Status.String()).Msg("Optimizer stopped early")
	}

	v.theta = append([]float64(nil), result.X...)
	v.fitted = true
	v.log.Info().
		Int("evaluations", v.Evaluations).
		Float64("loss", result.F).
		Str("status", result.Status.String()).
		Msg("VQC fit complete")

	return nil
}

// contextRecorder stops the optimizer as soon as ctx is done
type contextRecorder struct {
	ctx context.Context
}

func (r contextRecorder) Init() error {
	return r.ctx.Err()
}

func (r contextRecorder) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return r.ctx.Err()
}

// Predict returns the most probable class of every sample
func (v *VQC) Predict(X [][]float64) ([]int, error) {
	if !v.fitted {
		return nil, models.ErrNotFitted
	}

	out := make([]int, len(X))
	for i, x := range X {
		p, err := v.ClassProbabilities(x, v.theta)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = floats.MaxIdx(p)
	}
	return out, nil
}

// Score returns the fraction of correctly predicted samples
func (v *VQC) Score(X [][]float64, y []int) (float64, error) {
	pred, err := v.Predict(X)
	if err != nil {
		return 0, err
	}

	targets := make([]float64, len(y))
	predictions := make([]float64, len(pred))
	for i := range y {
		targets[i] = float64(y[i])
	}
	for i := range pred {
		predictions[i] = float64(pred[i])
	}
	return Accuracy(targets, predictions)
}

// ClassLabels converts float labels to class indices, rejecting
// non-integral values
func ClassLabels(labels []float64) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		c := int(l)
		if float64(c) != l || c < 0 {
			return nil, fmt.Errorf("label %g at row %d is not a class index", l, i)
		}
		out[i] = c
	}
	return out, nil
}
