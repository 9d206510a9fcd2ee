package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

// Config holds application configuration
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	LogPretty  bool             `yaml:"log_pretty"`
	Classifier ClassifierConfig `yaml:"classifier"`
	VQC        VQCConfig        `yaml:"vqc"`
}

// ClassifierConfig configures the amplitude-encoded classifier run
type ClassifierConfig struct {
	DataFile      string  `yaml:"data_file"`
	NumLayers     int     `yaml:"num_layers"`
	Iterations    int     `yaml:"iterations"`
	BatchSize     int     `yaml:"batch_size"`
	StepSize      float64 `yaml:"step_size"`
	Momentum      float64 `yaml:"momentum"`
	InitScale     float64 `yaml:"init_scale"`
	TrainFraction float64 `yaml:"train_fraction"`
	Seed          int64   `yaml:"seed"`
	// BatchSeed seeds mini-batch sampling; negative draws batches from the
	// same stream as the split and the initial weights
	BatchSeed int64 `yaml:"batch_seed"`
}

// VQCConfig configures the feature-map/ansatz classifier run
type VQCConfig struct {
	DataFile       string  `yaml:"data_file"`
	NumFeatures    int     `yaml:"num_features"`
	FeatureReps    int     `yaml:"feature_reps"`
	AnsatzReps     int     `yaml:"ansatz_reps"`
	MaxEvaluations int     `yaml:"max_evaluations"`
	TrainSize      float64 `yaml:"train_size"`
	Seed           int64   `yaml:"seed"`
}

// Default returns the reference configuration
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogPretty: true,
		Classifier: ClassifierConfig{
			DataFile:      "data/iris_classes1and2_scaled.txt",
			NumLayers:     6,
			Iterations:    60,
			BatchSize:     5,
			StepSize:      0.01,
			Momentum:      0.9,
			InitScale:     0.01,
			TrainFraction: 0.75,
			Seed:          0,
			BatchSeed:     -1,
		},
		VQC: VQCConfig{
			DataFile:       "data/iris.csv",
			NumFeatures:    4,
			FeatureReps:    1,
			AnsatzReps:     3,
			MaxEvaluations: 100,
			TrainSize:      0.8,
			Seed:           123,
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML
// file at path, and environment variables, in increasing precedence
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("QML_LOG_LEVEL", c.LogLevel)
	c.LogPretty = getEnvAsBool("QML_LOG_PRETTY", c.LogPretty)

	c.Classifier.DataFile = getEnv("QML_DATA_FILE", c.Classifier.DataFile)
	c.Classifier.NumLayers = getEnvAsInt("QML_LAYERS", c.Classifier.NumLayers)
	c.Classifier.Iterations = getEnvAsInt("QML_ITERATIONS", c.Classifier.Iterations)
	c.Classifier.BatchSize = getEnvAsInt("QML_BATCH_SIZE", c.Classifier.BatchSize)
	c.Classifier.StepSize = getEnvAsFloat("QML_STEP_SIZE", c.Classifier.StepSize)
	c.Classifier.Momentum = getEnvAsFloat("QML_MOMENTUM", c.Classifier.Momentum)
	c.Classifier.Seed = getEnvAsInt64("QML_SEED", c.Classifier.Seed)
	c.Classifier.BatchSeed = getEnvAsInt64("QML_BATCH_SEED", c.Classifier.BatchSeed)

	c.VQC.DataFile = getEnv("QML_VQC_DATA_FILE", c.VQC.DataFile)
	c.VQC.MaxEvaluations = getEnvAsInt("QML_VQC_MAX_EVALUATIONS", c.VQC.MaxEvaluations)
	c.VQC.Seed = getEnvAsInt64("QML_VQC_SEED", c.VQC.Seed)
}

// Validate checks that every size is usable
func (c *Config) Validate() error {
	cl := c.Classifier
	if cl.DataFile == "" {
		return fmt.Errorf("%w: classifier data file is required", models.ErrInvalidConfig)
	}
	if cl.NumLayers < 1 || cl.Iterations < 1 || cl.BatchSize < 1 {
		return fmt.Errorf("%w: layers, iterations and batch size must be positive", models.ErrInvalidConfig)
	}
	if cl.StepSize <= 0 || cl.Momentum < 0 || cl.Momentum >= 1 {
		return fmt.Errorf("%w: need step size > 0 and momentum in [0, 1)", models.ErrInvalidConfig)
	}
	if cl.TrainFraction <= 0 || cl.TrainFraction >= 1 {
		return fmt.Errorf("%w: train fraction must be in (0, 1)", models.ErrInvalidConfig)
	}

	v := c.VQC
	if v.DataFile == "" {
		return fmt.Errorf("%w: VQC data file is required", models.ErrInvalidConfig)
	}
	if v.NumFeatures < 1 || v.FeatureReps < 1 || v.AnsatzReps < 0 || v.MaxEvaluations < 1 {
		return fmt.Errorf("%w: VQC sizes must be positive", models.ErrInvalidConfig)
	}
	if v.TrainSize <= 0 || v.TrainSize >= 1 {
		return fmt.Errorf("%w: VQC train size must be in (0, 1)", models.ErrInvalidConfig)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
