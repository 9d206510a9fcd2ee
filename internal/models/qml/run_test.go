package qml

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainingRunLifecycle(t *testing.T) {
	run := NewTrainingRun(ModelAmplitudeClassifier, "StateVectorSimulator", 3)

	assert.NotEqual(t, uuid.Nil, run.RunID)
	assert.Equal(t, RunInitialized, run.Status)
	assert.False(t, run.Status.IsTerminal())
	assert.Nil(t, run.CompletedAt)

	_, ok := run.Last()
	assert.False(t, ok)

	run.Record(IterationRecord{Iteration: 1, Cost: 0.9})
	run.Record(IterationRecord{Iteration: 2, Cost: 0.7})
	assert.Equal(t, RunStepping, run.Status)
	assert.False(t, run.Status.IsTerminal())

	last, ok := run.Last()
	require.True(t, ok)
	assert.Equal(t, 2, last.Iteration)

	run.Finish(RunDone, "final cost 0.7")
	assert.True(t, run.Status.IsTerminal())
	require.NotNil(t, run.CompletedAt)
	assert.Equal(t, "final cost 0.7", run.Message)
}

func TestRunIDsAreUnique(t *testing.T) {
	a := NewTrainingRun(ModelVQC, "sim", 1)
	b := NewTrainingRun(ModelVQC, "sim", 1)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestSentinelErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrEmptyBatch)
	assert.ErrorIs(t, wrapped, ErrEmptyBatch)
	assert.NotErrorIs(t, wrapped, ErrEmptyDataset)
	assert.Equal(t, "batch is empty", ErrEmptyBatch.Error())
}
