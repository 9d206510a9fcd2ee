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
	"github.com/jaskrrish/Go-QML/pkg/logger"
)

// Trains the amplitude-encoded variational classifier on the first two
// feature columns of a ±1-labelled dataset

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

	cc := cfg.Classifier
	data, err := datasets.LoadFile(cc.DataFile, 2)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}
	log.Info().Str("file", cc.DataFile).Int("samples", data.Len()).Msg("Dataset loaded")

	encoded, err := qml.EncodeAll(data.Rows())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode dataset")
	}

	first := encoded[0]
	fmt.Println("First X sample (original)  :", first.Original)
	fmt.Println("First X sample (padded)    :", first.Padded)
	fmt.Println("First X sample (normalized):", first.Normalized)
	fmt.Println("First features sample      :", first.Angles)

	initRng := rand.New(rand.NewSource(cc.Seed))
	split, err := datasets.PermutationSplit(data, cc.TrainFraction, initRng)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to split dataset")
	}

	all := qml.Samples{Features: qml.AnglesOf(encoded), Labels: data.Y}
	sessionData := qml.SessionData{
		Train:      all.Pick(split.TrainIndex),
		Validation: all.Pick(split.ValidationIndex),
		All:        all,
	}

	batchRng := initRng
	if cc.BatchSeed >= 0 {
		batchRng = rand.New(rand.NewSource(cc.BatchSeed))
	}

	model := qml.NewModel(quantum.NewSimulatorBackend())
	session, err := qml.NewSession(model, qml.SessionConfig{
		NumLayers:  cc.NumLayers,
		Iterations: cc.Iterations,
		BatchSize:  cc.BatchSize,
		StepSize:   cc.StepSize,
		Momentum:   cc.Momentum,
		InitScale:  cc.InitScale,
	}, sessionData, initRng, batchRng, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create training session")
	}
	session.SetProgress(os.Stdout)

	run := session.Run()
	run.DatasetFingerprint = data.Fingerprint()
	log.Info().
		Str("run_id", run.RunID.String()).
		Str("dataset", run.DatasetFingerprint).
		Str("backend", run.Backend).
		Msg("Run initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := session.Train(ctx); err != nil {
		log.Error().Err(err).Str("status", string(run.Status)).Msg("Training stopped")
		os.Exit(1)
	}

	log.Info().
		Str("run_id", run.RunID.String()).
		Float64("bias", session.Bias()).
		Interface("weights_shape", session.Weights().Shape()).
		Msg("Run finished")
}
