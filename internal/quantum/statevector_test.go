package quantum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func assertAmplitudes(t *testing.T, expected []complex128, state *StateVector) {
	t.Helper()
	actual := state.Amplitudes()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.InDeltaf(t, 0, cmplx.Abs(expected[i]-actual[i]), tol,
			"amplitude %d: expected %v, got %v", i, expected[i], actual[i])
	}
}

// TestNewStateVector tests register initialization
func TestNewStateVector(t *testing.T) {
	for n := 1; n <= 4; n++ {
		state := NewStateVector(n)
		amps := state.Amplitudes()

		assert.Len(t, amps, 1<<n)
		assert.Equal(t, complex(1, 0), amps[0])
		assert.InDelta(t, 1.0, state.Norm(), tol)
	}
}

// TestNewStateVectorFromAmplitudes tests wrapping raw amplitudes
func TestNewStateVectorFromAmplitudes(t *testing.T) {
	t.Run("Power of two", func(t *testing.T) {
		state, err := NewStateVectorFromAmplitudes([]complex128{0, 1, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, 2, state.NumQubits)
	})

	t.Run("Not a power of two", func(t *testing.T) {
		_, err := NewStateVectorFromAmplitudes([]complex128{1, 0, 0})
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := NewStateVectorFromAmplitudes(nil)
		assert.Error(t, err)
	})
}

// TestSingleQubitGates tests gate kernels against known states
func TestSingleQubitGates(t *testing.T) {
	s := complex(1/math.Sqrt2, 0)

	tests := []struct {
		name     string
		circuit  *Circuit
		expected []complex128
	}{
		{"X on qubit 0 flips the most significant bit", NewCircuit(2).X(0), []complex128{0, 0, 1, 0}},
		{"X on qubit 1 flips the least significant bit", NewCircuit(2).X(1), []complex128{0, 1, 0, 0}},
		{"Hadamard", NewCircuit(1).H(0), []complex128{s, s}},
		{"Y on |0⟩", NewCircuit(1).Y(0), []complex128{0, 1i}},
		{"Z on |1⟩", NewCircuit(1).X(0).Z(0), []complex128{0, -1}},
		{"RY(π) on |0⟩", NewCircuit(1).RY(math.Pi, 0), []complex128{0, 1}},
		{"RX(π) on |0⟩", NewCircuit(1).RX(math.Pi, 0), []complex128{0, -1i}},
		{"RZ(π) on |+⟩", NewCircuit(1).H(0).RZ(math.Pi, 0), []complex128{-1i * s, 1i * s}},
		{"P(π/2) on |1⟩", NewCircuit(1).X(0).P(math.Pi/2, 0), []complex128{0, 1i}},
		{"Rot(0,π,0) equals RY(π)", NewCircuit(1).Rot(0, math.Pi, 0, 0), []complex128{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewStateVector(tt.circuit.NumQubits)
			require.NoError(t, state.ApplyCircuit(tt.circuit))
			assertAmplitudes(t, tt.expected, state)
		})
	}
}

// TestTwoQubitGates tests the entangling gates
func TestTwoQubitGates(t *testing.T) {
	tests := []struct {
		name     string
		circuit  *Circuit
		expected []complex128
	}{
		{"CNOT with control off", NewCircuit(2).CNOT(0, 1), []complex128{1, 0, 0, 0}},
		{"CNOT with control on", NewCircuit(2).X(0).CNOT(0, 1), []complex128{0, 0, 0, 1}},
		{"Reversed CNOT", NewCircuit(2).X(1).CNOT(1, 0), []complex128{0, 0, 0, 1}},
		{"CZ on |11⟩", NewCircuit(2).X(0).X(1).CZ(0, 1), []complex128{0, 0, 0, -1}},
		{"SWAP moves the excitation", NewCircuit(2).X(0).SWAP(0, 1), []complex128{0, 1, 0, 0}},
		{"CNOT across a spectator qubit", NewCircuit(3).X(0).CNOT(0, 2), []complex128{0, 0, 0, 0, 0, 1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewStateVector(tt.circuit.NumQubits)
			require.NoError(t, state.ApplyCircuit(tt.circuit))
			assertAmplitudes(t, tt.expected, state)
		})
	}
}

// TestRotMatrixIsUnitary checks U·U† = I for a few Euler angles
func TestRotMatrixIsUnitary(t *testing.T) {
	for _, angles := range [][3]float64{{0.1, 0.2, 0.3}, {-1.3, 2.2, 0.7}, {math.Pi, math.Pi / 2, -math.Pi}} {
		m := RotMatrix(angles[0], angles[1], angles[2])
		var dagger Matrix2
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				dagger[i][j] = cmplx.Conj(m[j][i])
			}
		}
		product := m.Mul(dagger)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, 0, cmplx.Abs(product[i][j]-identity[i][j]), tol)
			}
		}
	}
}

// TestExpval tests Pauli expectation values
func TestExpval(t *testing.T) {
	tests := []struct {
		name     string
		circuit  *Circuit
		obs      Observable
		qubit    int
		expected float64
	}{
		{"Z on |0⟩", NewCircuit(1), ObservableZ, 0, 1},
		{"Z on |1⟩", NewCircuit(1).X(0), ObservableZ, 0, -1},
		{"Z on |+⟩", NewCircuit(1).H(0), ObservableZ, 0, 0},
		{"X on |+⟩", NewCircuit(1).H(0), ObservableX, 0, 1},
		{"Y on |+i⟩", NewCircuit(1).RX(-math.Pi/2, 0), ObservableY, 0, 1},
		{"Z on qubit 1 of |01⟩", NewCircuit(2).X(1), ObservableZ, 1, -1},
		{"Z on qubit 0 of |01⟩", NewCircuit(2).X(1), ObservableZ, 0, 1},
		{"Z after RY(θ)", NewCircuit(1).RY(0.7, 0), ObservableZ, 0, math.Cos(0.7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewStateVector(tt.circuit.NumQubits)
			require.NoError(t, state.ApplyCircuit(tt.circuit))

			value, err := state.Expval(tt.obs, tt.qubit)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, value, tol)
		})
	}

	t.Run("Qubit out of range", func(t *testing.T) {
		_, err := NewStateVector(1).Expval(ObservableZ, 3)
		assert.Error(t, err)
	})
}

// TestApplyRejectsInvalidOperations tests operation validation
func TestApplyRejectsInvalidOperations(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
	}{
		{"Qubit out of range", Operation{Gate: GateX, Qubits: []int{2}}},
		{"Missing parameter", Operation{Gate: GateRY, Qubits: []int{0}}},
		{"Wrong arity", Operation{Gate: GateCNOT, Qubits: []int{0}}},
		{"Control equals target", Operation{Gate: GateCNOT, Qubits: []int{1, 1}}},
		{"Unknown gate", Operation{Gate: Gate("toffoli"), Qubits: []int{0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewStateVector(2).Apply(tt.op))
		})
	}
}

// TestStateString tests Dirac rendering
func TestStateString(t *testing.T) {
	state := NewStateVector(2)
	require.NoError(t, state.ApplyCircuit(BellPair()))

	assert.Equal(t, "(0.7071+0.0000i)|00⟩ + (0.7071+0.0000i)|11⟩", state.String())
}
