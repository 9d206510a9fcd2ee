package qml

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/jaskrrish/Go-QML/internal/datasets"
	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

// SessionConfig holds the hyperparameters of the training loop
type SessionConfig struct {
	NumLayers  int
	Iterations int
	BatchSize  int
	StepSize   float64
	Momentum   float64
	InitScale  float64
}

// DefaultSessionConfig returns the reference configuration: 6 layers,
// 60 iterations, batches of 5, step 0.01, momentum 0.9
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		NumLayers:  6,
		Iterations: 60,
		BatchSize:  5,
		StepSize:   DefaultStepSize,
		Momentum:   DefaultMomentum,
		InitScale:  0.01,
	}
}

// Validate rejects non-positive sizes
func (c SessionConfig) Validate() error {
	if c.NumLayers < 1 || c.Iterations < 1 || c.BatchSize < 1 {
		return fmt.Errorf("%w: layers, iterations and batch size must be positive", models.ErrInvalidConfig)
	}
	if c.StepSize <= 0 {
		return fmt.Errorf("%w: step size must be positive", models.ErrInvalidConfig)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("%w: momentum must be in [0, 1)", models.ErrInvalidConfig)
	}
	return nil
}

// Samples pairs angle vectors with ±1 labels
type Samples struct {
	Features []Angles
	Labels   []float64
}

// Len returns the number of samples
func (s Samples) Len() int {
	return len(s.Labels)
}

// Pick returns the samples at the given indices
func (s Samples) Pick(indices []int) Samples {
	out := Samples{
		Features: make([]Angles, len(indices)),
		Labels:   make([]float64, len(indices)),
	}
	for k, i := range indices {
		out.Features[k] = s.Features[i]
		out.Labels[k] = s.Labels[i]
	}
	return out
}

// SessionData is the encoded dataset a session trains and reports on
type SessionData struct {
	Train      Samples
	Validation Samples
	// All is the full dataset; the reported cost is computed over it
	All Samples
}

// Validate checks that every split is non-empty and consistent
func (d SessionData) Validate() error {
	for name, s := range map[string]Samples{"train": d.Train, "validation": d.Validation, "all": d.All} {
		if s.Len() == 0 {
			return fmt.Errorf("%s split: %w", name, models.ErrEmptyDataset)
		}
		if len(s.Features) != len(s.Labels) {
			return fmt.Errorf("%s split: %w", name, models.ErrLengthMismatch)
		}
	}
	return nil
}

// Session owns the mutable state of one training run: weights, bias,
// optimizer velocity and the batch sampler
type Session struct {
	model    *Model
	config   SessionConfig
	data     SessionData
	opt      *NesterovOptimizer
	batchRng *rand.Rand
	weights  Weights
	bias     float64
	run      *models.TrainingRun
	progress io.Writer
	log      zerolog.Logger
}

// NewSession creates a session in the initialized state. Weights are drawn
// from initRng as InitScale·N(0,1); the bias starts at zero. Mini-batches
// are drawn from batchRng.
func NewSession(model *Model, config SessionConfig, data SessionData, initRng, batchRng *rand.Rand, log zerolog.Logger) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	run := models.NewTrainingRun(models.ModelAmplitudeClassifier, model.Backend().Name(), config.Iterations)
	run.NumSamples = data.All.Len()
	run.NumTrain = data.Train.Len()

	return &Session{
		model:    model,
		config:   config,
		data:     data,
		opt:      NewNesterovOptimizer(config.StepSize, config.Momentum),
		batchRng: batchRng,
		weights:  RandomWeights(config.NumLayers, config.InitScale, initRng),
		bias:     0,
		run:      run,
		progress: io.Discard,
		log:      log.With().Str("run_id", run.RunID.String()).Logger(),
	}, nil
}

// SetProgress directs the per-iteration progress lines to w
func (s *Session) SetProgress(w io.Writer) {
	s.progress = w
}

// Run returns the training run record
func (s *Session) Run() *models.TrainingRun {
	return s.run
}

// Weights returns a copy of the current weights
func (s *Session) Weights() Weights {
	return s.weights.Clone()
}

// Bias returns the current bias
func (s *Session) Bias() float64 {
	return s.bias
}

// Status returns the current run status
func (s *Session) Status() models.RunStatus {
	return s.run.Status
}

// Step performs one iteration: sample a batch, take an optimizer step,
// then score the train and validation splits
func (s *Session) Step() (models.IterationRecord, error) {
	if s.run.Status.IsTerminal() {
		return models.IterationRecord{}, fmt.Errorf("run is %s", s.run.Status)
	}

	batchIndex, err := datasets.SampleBatch(s.data.Train.Len(), s.config.BatchSize, s.batchRng)
	if err != nil {
		return models.IterationRecord{}, err
	}
	batch := s.data.Train.Pick(batchIndex)

	params := append(s.weights.Flatten(), s.bias)
	numLayers := s.config.NumLayers
	next, err := s.opt.Step(params, func(p []float64) ([]float64, error) {
		w, err := WeightsFromFlat(numLayers, p[:len(p)-1])
		if err != nil {
			return nil, err
		}
		_, gradW, gradB, err := s.model.CostGradient(w, p[len(p)-1], batch.Features, batch.Labels)
		if err != nil {
			return nil, err
		}
		return append(gradW.Flatten(), gradB), nil
	})
	if err != nil {
		return models.IterationRecord{}, fmt.Errorf("optimizer step failed: %w", err)
	}

	weights, err := WeightsFromFlat(numLayers, next[:len(next)-1])
	if err != nil {
		return models.IterationRecord{}, err
	}
	s.weights, s.bias = weights, next[len(next)-1]

	rec, err := s.evaluate(len(s.run.History) + 1)
	if err != nil {
		return models.IterationRecord{}, err
	}
	s.run.Record(rec)

	return rec, nil
}

// evaluate scores the current parameters for iteration it
func (s *Session) evaluate(it int) (models.IterationRecord, error) {
	predTrain, err := s.model.Predict(s.weights, s.bias, s.data.Train.Features)
	if err != nil {
		return models.IterationRecord{}, err
	}
	predVal, err := s.model.Predict(s.weights, s.bias, s.data.Validation.Features)
	if err != nil {
		return models.IterationRecord{}, err
	}

	accTrain, err := Accuracy(s.data.Train.Labels, predTrain)
	if err != nil {
		return models.IterationRecord{}, err
	}
	accVal, err := Accuracy(s.data.Validation.Labels, predVal)
	if err != nil {
		return models.IterationRecord{}, err
	}

	cost, err := s.model.Cost(s.weights, s.bias, s.data.All.Features, s.data.All.Labels)
	if err != nil {
		return models.IterationRecord{}, err
	}

	return models.IterationRecord{
		Iteration:     it,
		Cost:          cost,
		AccTrain:      accTrain,
		AccValidation: accVal,
	}, nil
}

// Train runs the configured number of iterations, stopping early only if
// ctx is cancelled or a step fails
func (s *Session) Train(ctx context.Context) (*models.TrainingRun, error) {
	s.log.Info().
		Int("layers", s.config.NumLayers).
		Int("iterations", s.config.Iterations).
		Int("batch_size", s.config.BatchSize).
		Int("num_train", s.data.Train.Len()).
		Int("num_validation", s.data.Validation.Len()).
		Msg("Training started")

	for it := len(s.run.History); it < s.config.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			s.run.Finish(models.RunCancelled, err.Error())
			return s.run, err
		}

		rec, err := s.Step()
		if err != nil {
			s.run.Finish(models.RunFailed, err.Error())
			s.log.Error().Err(err).Int("iter", it+1).Msg("Training step failed")
			return s.run, err
		}

		fmt.Fprintln(s.progress, FormatIteration(rec))
		s.log.Debug().
			Int("iter", rec.Iteration).
			Float64("cost", rec.Cost).
			Float64("acc_train", rec.AccTrain).
			Float64("acc_val", rec.AccValidation).
			Msg("Iteration complete")
	}

	last, _ := s.run.Last()
	s.run.Finish(models.RunDone, fmt.Sprintf("final cost %.7f", last.Cost))
	s.log.Info().
		Float64("cost", last.Cost).
		Float64("acc_train", last.AccTrain).
		Float64("acc_val", last.AccValidation).
		Msg("Training complete")

	return s.run, nil
}

// FormatIteration renders an iteration record as a progress line
func FormatIteration(rec models.IterationRecord) string {
	return fmt.Sprintf("Iter: %5d | Cost: %0.7f | Acc train: %0.7f | Acc validation: %0.7f ",
		rec.Iteration, rec.Cost, rec.AccTrain, rec.AccValidation)
}
