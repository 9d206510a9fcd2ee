package quantum

import (
	"fmt"
	"math"
)

// BellPair builds the Bell state |Φ+⟩ = (|00⟩ + |11⟩)/√2
func BellPair() *Circuit {
	c := NewCircuit(2)
	c.H(0)
	c.CNOT(0, 1)
	return c
}

// GHZ builds the state (|0...0⟩ + |1...1⟩)/√2 on numQubits qubits
func GHZ(numQubits int) (*Circuit, error) {
	if numQubits < 2 {
		return nil, fmt.Errorf("GHZ state requires at least 2 qubits")
	}

	c := NewCircuit(numQubits)
	c.H(0)
	for i := 1; i < numQubits; i++ {
		c.CNOT(0, i)
	}

	return c, nil
}

// ZZFeatureMap encodes x with second-order Pauli-Z evolution, using full
// entanglement between every pair of qubits. Each repetition applies H and
// P(2·xᵢ) to every qubit, then for every pair i<j the block
// CX(i,j)·P(2·(π−xᵢ)(π−xⱼ)) on j·CX(i,j).
func ZZFeatureMap(x []float64, reps int) (*Circuit, error) {
	n := len(x)
	if n < 1 {
		return nil, fmt.Errorf("feature map needs at least one feature")
	}
	if reps < 1 {
		return nil, fmt.Errorf("reps must be positive, got %d", reps)
	}

	c := NewCircuit(n)
	for r := 0; r < reps; r++ {
		for i := 0; i < n; i++ {
			c.H(i)
		}
		for i := 0; i < n; i++ {
			c.P(2*x[i], i).Label(fmt.Sprintf("2.0*x[%d]", i))
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				c.CNOT(i, j)
				c.P(2*(math.Pi-x[i])*(math.Pi-x[j]), j).
					Label(fmt.Sprintf("2.0*(π-x[%d])*(π-x[%d])", i, j))
				c.CNOT(i, j)
			}
		}
	}

	return c, nil
}

// RealAmplitudesParams returns the parameter count of a RealAmplitudes ansatz
func RealAmplitudesParams(numQubits, reps int) int {
	return numQubits * (reps + 1)
}

// RealAmplitudes builds the hardware-efficient ansatz of alternating RY
// layers and reverse-linear CX chains. theta must hold
// RealAmplitudesParams(numQubits, reps) values.
func RealAmplitudes(numQubits, reps int, theta []float64) (*Circuit, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("ansatz needs at least one qubit")
	}
	if reps < 0 {
		return nil, fmt.Errorf("reps must be non-negative, got %d", reps)
	}
	if want := RealAmplitudesParams(numQubits, reps); len(theta) != want {
		return nil, fmt.Errorf("ansatz expects %d parameters, got %d", want, len(theta))
	}

	c := NewCircuit(numQubits)
	k := 0
	rotations := func() {
		for q := 0; q < numQubits; q++ {
			c.RY(theta[k], q).Label(fmt.Sprintf("θ[%d]", k))
			k++
		}
	}

	rotations()
	for r := 0; r < reps; r++ {
		for q := numQubits - 2; q >= 0; q-- {
			c.CNOT(q, q+1)
		}
		rotations()
	}

	return c, nil
}
