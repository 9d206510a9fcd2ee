package quantum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParameterShift tests the shift rule against analytic derivatives
func TestParameterShift(t *testing.T) {
	backend := NewSimulatorBackend()

	t.Run("RY on |0⟩", func(t *testing.T) {
		for _, theta := range []float64{0, 0.3, 1.2, math.Pi / 2, 2.8} {
			c := NewCircuit(1).RY(theta, 0)
			d, err := ParameterShift(backend, c, ParamIndex{Op: 0, Param: 0}, ObservableZ, 0)
			require.NoError(t, err)
			assert.InDelta(t, -math.Sin(theta), d, tol)
		}
	})

	t.Run("Rot middle angle", func(t *testing.T) {
		// ⟨Z⟩ after Rot(φ, θ, ω)|0⟩ is cos θ
		c := NewCircuit(1).Rot(0.4, 0.9, -1.3, 0)
		d, err := ParameterShift(backend, c, ParamIndex{Op: 0, Param: 1}, ObservableZ, 0)
		require.NoError(t, err)
		assert.InDelta(t, -math.Sin(0.9), d, tol)

		d, err = ParameterShift(backend, c, ParamIndex{Op: 0, Param: 0}, ObservableZ, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, tol)
	})

	t.Run("Entangled circuit matches finite differences", func(t *testing.T) {
		build := func(a float64) *Circuit {
			return NewCircuit(2).H(0).RX(a, 0).CNOT(0, 1).RY(0.7, 1).RZ(0.2, 1).H(1)
		}
		const a, h = 0.6, 1e-6

		d, err := ParameterShift(backend, build(a), ParamIndex{Op: 1, Param: 0}, ObservableZ, 1)
		require.NoError(t, err)

		fp, err := backend.Expval(build(a+h), ObservableZ, 1)
		require.NoError(t, err)
		fm, err := backend.Expval(build(a-h), ObservableZ, 1)
		require.NoError(t, err)
		assert.InDelta(t, (fp-fm)/(2*h), d, 1e-6)
	})

	t.Run("Invalid index", func(t *testing.T) {
		c := NewCircuit(1).H(0).RY(0.1, 0)

		_, err := ParameterShift(backend, c, ParamIndex{Op: 5, Param: 0}, ObservableZ, 0)
		assert.Error(t, err)

		_, err = ParameterShift(backend, c, ParamIndex{Op: 1, Param: 2}, ObservableZ, 0)
		assert.Error(t, err)

		_, err = ParameterShift(backend, c, ParamIndex{Op: 0, Param: 0}, ObservableZ, 0)
		assert.Error(t, err)
	})
}
