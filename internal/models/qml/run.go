package qml

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the current state of a training run
type RunStatus string

const (
	RunInitialized RunStatus = "initialized"
	RunStepping    RunStatus = "stepping"
	RunDone        RunStatus = "done"
	RunFailed      RunStatus = "failed"
	RunCancelled   RunStatus = "cancelled"
)

// ModelKind identifies which classifier a run trains
type ModelKind string

const (
	ModelAmplitudeClassifier ModelKind = "amplitude_classifier"
	ModelVQC                 ModelKind = "vqc"
)

// TrainingRun records one execution of a training loop
type TrainingRun struct {
	RunID              uuid.UUID         `json:"run_id"`
	Model              ModelKind         `json:"model"`
	Status             RunStatus         `json:"status"`
	Backend            string            `json:"backend"`
	DatasetFingerprint string            `json:"dataset_fingerprint"`
	NumSamples         int               `json:"num_samples"`
	NumTrain           int               `json:"num_train"`
	Iterations         int               `json:"iterations"`
	History            []IterationRecord `json:"history,omitempty"`
	Message            string            `json:"message,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
}

// IterationRecord holds the metrics logged after one optimizer step
type IterationRecord struct {
	Iteration     int     `json:"iteration"`
	Cost          float64 `json:"cost"`
	AccTrain      float64 `json:"acc_train"`
	AccValidation float64 `json:"acc_validation"`
}

// NewTrainingRun creates a run in the initialized state
func NewTrainingRun(model ModelKind, backend string, iterations int) *TrainingRun {
	return &TrainingRun{
		RunID:      uuid.New(),
		Model:      model,
		Status:     RunInitialized,
		Backend:    backend,
		Iterations: iterations,
		History:    make([]IterationRecord, 0, iterations),
		CreatedAt:  time.Now(),
	}
}

// Record appends an iteration record and moves the run to stepping
func (r *TrainingRun) Record(rec IterationRecord) {
	r.Status = RunStepping
	r.History = append(r.History, rec)
}

// Finish moves the run to a terminal status
func (r *TrainingRun) Finish(status RunStatus, message string) {
	now := time.Now()
	r.Status = status
	r.Message = message
	r.CompletedAt = &now
}

// Last returns the most recent iteration record, if any
func (r *TrainingRun) Last() (IterationRecord, bool) {
	if len(r.History) == 0 {
		return IterationRecord{}, false
	}
	return r.History[len(r.History)-1], true
}

// IsTerminal reports whether the run has stopped
func (s RunStatus) IsTerminal() bool {
	return s == RunDone || s == RunFailed || s == RunCancelled
}
