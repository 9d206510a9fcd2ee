package qml

import (
	"fmt"

	"github.com/jaskrrish/Go-QML/internal/quantum"
	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

// Model evaluates the amplitude-encoded variational classifier on a backend
type Model struct {
	backend quantum.Backend
}

// NewModel creates a classifier model that runs circuits on backend
func NewModel(backend quantum.Backend) *Model {
	return &Model{backend: backend}
}

// Backend returns the execution backend
func (m *Model) Backend() quantum.Backend {
	return m.backend
}

// Circuit returns ⟨Z⟩ on qubit 0 after state preparation and all layers
func (m *Model) Circuit(w Weights, a Angles) (float64, error) {
	if len(w) == 0 {
		return 0, models.ErrShapeMismatch
	}
	return m.backend.Expval(BuildCircuit(w, a), quantum.ObservableZ, MeasuredQubit)
}

// Classify returns Circuit(w, a) + bias
func (m *Model) Classify(w Weights, bias float64, a Angles) (float64, error) {
	value, err := m.Circuit(w, a)
	if err != nil {
		return 0, err
	}
	return value + bias, nil
}

// Outputs classifies every sample
func (m *Model) Outputs(w Weights, bias float64, features []Angles) ([]float64, error) {
	out := make([]float64, len(features))
	for i, a := range features {
		v, err := m.Classify(w, bias, a)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Predict returns sign(Classify) for every sample, with sign(0) = 0
func (m *Model) Predict(w Weights, bias float64, features []Angles) ([]float64, error) {
	out, err := m.Outputs(w, bias, features)
	if err != nil {
		return nil, err
	}
	for i, v := range out {
		out[i] = Sign(v)
	}
	return out, nil
}

// Cost returns the mean squared loss of the classifier over a batch
func (m *Model) Cost(w Weights, bias float64, features []Angles, labels []float64) (float64, error) {
	if len(features) != len(labels) {
		return 0, models.ErrLengthMismatch
	}
	predictions, err := m.Outputs(w, bias, features)
	if err != nil {
		return 0, err
	}
	return SquareLoss(labels, predictions)
}

// CircuitGradient returns the circuit output and its derivative with
// respect to every weight, computed with the parameter-shift rule
func (m *Model) CircuitGradient(w Weights, a Angles) (float64, Weights, error) {
	if len(w) == 0 {
		return 0, nil, models.ErrShapeMismatch
	}

	c := BuildCircuit(w, a)
	value, err := m.backend.Expval(c, quantum.ObservableZ, MeasuredQubit)
	if err != nil {
		return 0, nil, err
	}

	grad := NewWeights(len(w))
	for l := range w {
		for q := 0; q < NumQubits; q++ {
			for k := 0; k < RotationParams; k++ {
				d, err := quantum.ParameterShift(m.backend, c, rotIndex(l, q, k), quantum.ObservableZ, MeasuredQubit)
				if err != nil {
					return 0, nil, fmt.Errorf("weight (%d,%d,%d): %w", l, q, k, err)
				}
				grad[l][q][k] = d
			}
		}
	}

	return value, grad, nil
}

// CostGradient returns the cost over a batch together with its gradient
// with respect to the weights and the bias
func (m *Model) CostGradient(w Weights, bias float64, features []Angles, labels []float64) (float64, Weights, float64, error) {
	if len(features) == 0 {
		return 0, nil, 0, models.ErrEmptyBatch
	}
	if len(features) != len(labels) {
		return 0, nil, 0, models.ErrLengthMismatch
	}

	n := float64(len(features))
	gradW := NewWeights(len(w))
	gradB := 0.0
	predictions := make([]float64, len(features))

	for i, a := range features {
		value, dW, err := m.CircuitGradient(w, a)
		if err != nil {
			return 0, nil, 0, fmt.Errorf("sample %d: %w", i, err)
		}
		predictions[i] = value + bias

		// d/dp (t − p)² / n = −2 (t − p) / n
		coeff := -2 * (labels[i] - predictions[i]) / n
		gradB += coeff
		for l := range gradW {
			for q := 0; q < NumQubits; q++ {
				for k := 0; k < RotationParams; k++ {
					gradW[l][q][k] += coeff * dW[l][q][k]
				}
			}
		}
	}

	cost, err := SquareLoss(labels, predictions)
	if err != nil {
		return 0, nil, 0, err
	}

	return cost, gradW, gradB, nil
}
