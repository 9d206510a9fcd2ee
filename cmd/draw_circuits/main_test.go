package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDiagramsOnly(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-qubits", "2", "-ansatz-reps", "1"}, &out))

	assert.Contains(t, out.String(), "ZZFeatureMap (2 qubits, reps=1)")
	assert.Contains(t, out.String(), "RealAmplitudes (2 qubits, reps=1)")
	assert.NotContains(t, out.String(), "OPENQASM")
}

func TestRunQASMNeedsBoundValues(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-qubits", "3", "-qasm"}, &out))

	assert.NotContains(t, out.String(), "OPENQASM")
	assert.NotContains(t, out.String(), "u1(")
	assert.Contains(t, out.String(), "OpenQASM skipped: pass -x")
	assert.Contains(t, out.String(), "OpenQASM skipped: pass -theta")
}

func TestRunQASMWithBoundValues(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{
		"-qubits", "2", "-ansatz-reps", "1", "-qasm",
		"-x", "0.1, 0.25",
		"-theta", "0.5,0,0,0",
	}, &out))

	assert.Equal(t, 2, strings.Count(out.String(), "OPENQASM 2.0;"))
	assert.Contains(t, out.String(), "u1(0.2) q[0];")
	assert.Contains(t, out.String(), "u1(0.5) q[1];")
	assert.Contains(t, out.String(), "ry(0.5) q[0];")
	assert.NotContains(t, out.String(), "OpenQASM skipped")

	t.Run("Only the feature map bound", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"-qubits", "2", "-qasm", "-x", "0.1,0.25"}, &out))

		assert.Equal(t, 1, strings.Count(out.String(), "OPENQASM 2.0;"))
		assert.Contains(t, out.String(), "OpenQASM skipped: pass -theta")
	})
}

func TestRunRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Wrong feature count", []string{"-qubits", "3", "-x", "0.1,0.2"}},
		{"Not a number", []string{"-qubits", "2", "-x", "0.1,abc"}},
		{"Wrong weight count", []string{"-qubits", "2", "-ansatz-reps", "1", "-theta", "1,2,3"}},
		{"Unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(tt.args, &out))
		})
	}
}

func TestParseValues(t *testing.T) {
	values, err := parseValues("", 3)
	require.NoError(t, err)
	assert.Nil(t, values)

	values, err = parseValues(" 1, -2.5 ,3e-1", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2.5, 0.3}, values)

	_, err = parseValues("1,2", 3)
	assert.Error(t, err)
}
