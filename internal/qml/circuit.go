package qml

import (
	"fmt"
	"math/rand"

	"github.com/jaskrrish/Go-QML/internal/quantum"
	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

const (
	// NumQubits is the register size of the amplitude classifier
	NumQubits = 2

	// RotationParams is the number of Euler angles per qubit per layer
	RotationParams = 3

	// MeasuredQubit carries the classifier output
	MeasuredQubit = 0

	// statePrepOps is the number of operations StatePreparation appends
	statePrepOps = 11

	// layerOps is the number of operations Layer appends
	layerOps = NumQubits + 1
)

// Weights is the trainable tensor indexed by (layer, qubit, rotation axis)
type Weights [][NumQubits][RotationParams]float64

// NewWeights returns an all-zero tensor with numLayers layers
func NewWeights(numLayers int) Weights {
	return make(Weights, numLayers)
}

// RandomWeights draws every entry from scale·N(0, 1)
func RandomWeights(numLayers int, scale float64, rng *rand.Rand) Weights {
	w := NewWeights(numLayers)
	for l := range w {
		for q := 0; q < NumQubits; q++ {
			for k := 0; k < RotationParams; k++ {
				w[l][q][k] = scale * rng.NormFloat64()
			}
		}
	}
	return w
}

// NumLayers returns the first dimension of the tensor
func (w Weights) NumLayers() int {
	return len(w)
}

// NumParams returns the total number of entries
func (w Weights) NumParams() int {
	return len(w) * NumQubits * RotationParams
}

// Shape returns the tensor dimensions (layers, qubits, axes)
func (w Weights) Shape() [3]int {
	return [3]int{len(w), NumQubits, RotationParams}
}

// Clone returns an independent copy
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	copy(out, w)
	return out
}

// Flatten lays the tensor out in (layer, qubit, axis) order
func (w Weights) Flatten() []float64 {
	flat := make([]float64, 0, w.NumParams())
	for l := range w {
		for q := 0; q < NumQubits; q++ {
			flat = append(flat, w[l][q][:]...)
		}
	}
	return flat
}

// WeightsFromFlat rebuilds a tensor from Flatten's layout
func WeightsFromFlat(numLayers int, flat []float64) (Weights, error) {
	w := NewWeights(numLayers)
	if len(flat) != w.NumParams() {
		return nil, fmt.Errorf("%w: got %d values for %d layers", models.ErrShapeMismatch, len(flat), numLayers)
	}
	i := 0
	for l := range w {
		for q := 0; q < NumQubits; q++ {
			for k := 0; k < RotationParams; k++ {
				w[l][q][k] = flat[i]
				i++
			}
		}
	}
	return w, nil
}

// StatePreparation appends the gates that amplitude-encode a into qubits
// 0 and 1 of c. Qubit 0 is the most significant amplitude index.
func StatePreparation(c *quantum.Circuit, a Angles) {
	c.RY(a[0], 0)

	c.CNOT(0, 1)
	c.RY(a[1], 1)
	c.CNOT(0, 1)
	c.RY(a[2], 1)

	c.X(0)
	c.CNOT(0, 1)
	c.RY(a[3], 1)
	c.CNOT(0, 1)
	c.RY(a[4], 1)
	c.X(0)
}

// Layer appends one variational layer: a Rot on each qubit, then CNOT(0, 1)
func Layer(c *quantum.Circuit, w [NumQubits][RotationParams]float64) {
	c.Rot(w[0][0], w[0][1], w[0][2], 0)
	c.Rot(w[1][0], w[1][1], w[1][2], 1)
	c.CNOT(0, 1)
}

// BuildCircuit composes state preparation and every variational layer
func BuildCircuit(w Weights, a Angles) *quantum.Circuit {
	c := quantum.NewCircuit(NumQubits)
	StatePreparation(c, a)
	for _, layer := range w {
		Layer(c, layer)
	}
	return c
}

// rotIndex locates weight (layer, qubit, axis) inside BuildCircuit's output
func rotIndex(layer, qubit, axis int) quantum.ParamIndex {
	return quantum.ParamIndex{Op: statePrepOps + layer*layerOps + qubit, Param: axis}
}
