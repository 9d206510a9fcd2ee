package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix2 is a 2x2 complex matrix acting on a single qubit
type Matrix2 [2][2]complex128

var (
	identity = Matrix2{{1, 0}, {0, 1}}
	pauliX   = Matrix2{{0, 1}, {1, 0}}
	pauliY   = Matrix2{{0, -1i}, {1i, 0}}
	pauliZ   = Matrix2{{1, 0}, {0, -1}}
	hadamard = Matrix2{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
)

// Mul returns the matrix product m·n
func (m Matrix2) Mul(n Matrix2) Matrix2 {
	var out Matrix2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j]
		}
	}
	return out
}

// RXMatrix returns exp(-iθX/2)
func RXMatrix(theta float64) Matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return Matrix2{{c, s}, {s, c}}
}

// RYMatrix returns exp(-iθY/2)
func RYMatrix(theta float64) Matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix2{{c, -s}, {s, c}}
}

// RZMatrix returns exp(-iθZ/2)
func RZMatrix(theta float64) Matrix2 {
	return Matrix2{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

// PhaseMatrix returns diag(1, e^{iλ})
func PhaseMatrix(lambda float64) Matrix2 {
	return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, lambda))}}
}

// RotMatrix returns RZ(omega)·RY(theta)·RZ(phi)
func RotMatrix(phi, theta, omega float64) Matrix2 {
	return RZMatrix(omega).Mul(RYMatrix(theta)).Mul(RZMatrix(phi))
}

// singleQubitMatrix resolves the unitary of a one-qubit operation
func singleQubitMatrix(op Operation) (Matrix2, error) {
	switch op.Gate {
	case GateI:
		return identity, nil
	case GateH:
		return hadamard, nil
	case GateX:
		return pauliX, nil
	case GateY:
		return pauliY, nil
	case GateZ:
		return pauliZ, nil
	case GateRX:
		return RXMatrix(op.Params[0]), nil
	case GateRY:
		return RYMatrix(op.Params[0]), nil
	case GateRZ:
		return RZMatrix(op.Params[0]), nil
	case GateP:
		return PhaseMatrix(op.Params[0]), nil
	case GateRot:
		return RotMatrix(op.Params[0], op.Params[1], op.Params[2]), nil
	default:
		return Matrix2{}, fmt.Errorf("gate %s is not a single-qubit gate", op.Gate)
	}
}

// ShiftRule reports whether a parameter of the gate has a generator with
// eigenvalues ±1/2, so that the two-term parameter-shift rule is exact
func (g Gate) ShiftRule() bool {
	switch g {
	case GateRX, GateRY, GateRZ, GateP, GateRot:
		return true
	default:
		return false
	}
}
