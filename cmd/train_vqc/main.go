package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaskrrish/Go-QML/internal/config"
	"github.com/jaskrrish/Go-QML/internal/datasets"
	"github.com/jaskrrish/Go-QML/internal/qml"
	"github.com/jaskrrish/Go-QML/internal/quantum"
	models "github.com/jaskrrish/Go-QML/internal/models/qml"
	"github.com/jaskrrish/Go-QML/pkg/logger"
)

// Trains a ZZ feature map + RealAmplitudes classifier on a multi-class
// dataset and reports train and test accuracy

func main() {
	configPath := flag.String("config", "", "path to a YAML experiment file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	vc := cfg.VQC
	data, err := datasets.LoadFile(vc.DataFile, vc.NumFeatures)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	labels, err := qml.ClassLabels(data.Y)
	if err != nil {
		log.Fatal().Err(err).Msg("Dataset labels are not class indices")
	}
	numClasses := 0
	for _, c := range labels {
		if c+1 > numClasses {
			numClasses = c + 1
		}
	}

	split, err := datasets.TrainTestSplit(data, vc.TrainSize, vc.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to split dataset")
	}
	trainY, err := qml.ClassLabels(split.Train.Y)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid training labels")
	}
	testY, err := qml.ClassLabels(split.Validation.Y)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid test labels")
	}

	backend := quantum.NewSimulatorBackend()
	run := models.NewTrainingRun(models.ModelVQC, backend.Name(), vc.MaxEvaluations)
	run.DatasetFingerprint = data.Fingerprint()
	run.NumSamples = data.Len()
	run.NumTrain = split.Train.Len()

	vqc, err := qml.NewVQC(qml.VQCConfig{
		NumFeatures:    vc.NumFeatures,
		NumClasses:     numClasses,
		FeatureReps:    vc.FeatureReps,
		AnsatzReps:     vc.AnsatzReps,
		MaxEvaluations: vc.MaxEvaluations,
	}, backend, rand.New(rand.NewSource(vc.Seed)), log.With().Str("run_id", run.RunID.String()).Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build VQC")
	}

	log.Info().
		Str("run_id", run.RunID.String()).
		Str("dataset", run.DatasetFingerprint).
		Int("classes", numClasses).
		Int("parameters", len(vqc.Parameters())).
		Int("num_train", run.NumTrain).
		Msg("Fitting VQC")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := vqc.Fit(ctx, split.Train.Rows(), trainY); err != nil {
		run.Finish(models.RunFailed, err.Error())
		log.Error().Err(err).Msg("VQC fit failed")
		os.Exit(1)
	}

	trainScore, err := vqc.Score(split.Train.Rows(), trainY)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to score training set")
	}
	testScore, err := vqc.Score(split.Validation.Rows(), testY)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to score test set")
	}

	for i, loss := range vqc.LossHistory {
		run.Record(models.IterationRecord{Iteration: i + 1, Cost: loss})
	}
	run.Finish(models.RunDone, fmt.Sprintf("train %.2f, test %.2f", trainScore, testScore))

	fmt.Printf("Quantum VQC on the training dataset: %.2f\n", trainScore)
	fmt.Printf("Quantum VQC on the test dataset:     %.2f\n", testScore)

	log.Info().
		Str("run_id", run.RunID.String()).
		Int("evaluations", vqc.Evaluations).
		Str("status", string(run.Status)).
		Msg("Run finished")
}
