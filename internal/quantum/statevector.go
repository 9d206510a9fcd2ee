package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// StateVector holds the 2^n complex amplitudes of an n-qubit register.
// Qubit 0 is the most significant bit of the basis-state index, so for two
// qubits the amplitudes are ordered |00⟩, |01⟩, |10⟩, |11⟩ as |q0 q1⟩.
type StateVector struct {
	NumQubits  int
	amplitudes []complex128
}

// NewStateVector creates a register initialized to |0...0⟩
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{NumQubits: numQubits, amplitudes: amps}
}

// NewStateVectorFromAmplitudes wraps a copy of the given amplitudes
func NewStateVectorFromAmplitudes(amps []complex128) (*StateVector, error) {
	n := 0
	for 1<<n < len(amps) {
		n++
	}
	if len(amps) == 0 || 1<<n != len(amps) {
		return nil, fmt.Errorf("amplitude count %d is not a power of two", len(amps))
	}
	cp := make([]complex128, len(amps))
	copy(cp, amps)
	return &StateVector{NumQubits: n, amplitudes: cp}, nil
}

// Amplitudes returns a copy of the amplitudes
func (s *StateVector) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amplitudes))
	copy(out, s.amplitudes)
	return out
}

// Clone returns an independent copy of the state
func (s *StateVector) Clone() *StateVector {
	return &StateVector{NumQubits: s.NumQubits, amplitudes: s.Amplitudes()}
}

// mask returns the index bit that belongs to qubit q
func (s *StateVector) mask(q int) int {
	return 1 << (s.NumQubits - 1 - q)
}

// Apply applies one operation to the state in place
func (s *StateVector) Apply(op Operation) error {
	if err := op.Validate(s.NumQubits); err != nil {
		return err
	}

	switch op.Gate {
	case GateCNOT:
		s.applyCNOT(op.Qubits[0], op.Qubits[1])
	case GateCZ:
		s.applyCZ(op.Qubits[0], op.Qubits[1])
	case GateSWAP:
		s.applySWAP(op.Qubits[0], op.Qubits[1])
	default:
		m, err := singleQubitMatrix(op)
		if err != nil {
			return err
		}
		s.ApplyMatrix(m, op.Qubits[0])
	}

	return nil
}

// ApplyCircuit applies every operation of the circuit in order
func (s *StateVector) ApplyCircuit(c *Circuit) error {
	if c.NumQubits != s.NumQubits {
		return fmt.Errorf("circuit has %d qubits, state has %d", c.NumQubits, s.NumQubits)
	}
	for i, op := range c.Operations {
		if err := s.Apply(op); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

// ApplyMatrix applies a single-qubit unitary to qubit q
func (s *StateVector) ApplyMatrix(m Matrix2, q int) {
	bit := s.mask(q)
	for i := range s.amplitudes {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := s.amplitudes[i], s.amplitudes[j]
		s.amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
		s.amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (s *StateVector) applyCNOT(control, target int) {
	cbit, tbit := s.mask(control), s.mask(target)
	for i := range s.amplitudes {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			s.amplitudes[i], s.amplitudes[j] = s.amplitudes[j], s.amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	cbit, tbit := s.mask(control), s.mask(target)
	for i := range s.amplitudes {
		if i&cbit != 0 && i&tbit != 0 {
			s.amplitudes[i] = -s.amplitudes[i]
		}
	}
}

func (s *StateVector) applySWAP(a, b int) {
	abit, bbit := s.mask(a), s.mask(b)
	for i := range s.amplitudes {
		if i&abit != 0 && i&bbit == 0 {
			j := (i &^ abit) | bbit
			s.amplitudes[i], s.amplitudes[j] = s.amplitudes[j], s.amplitudes[i]
		}
	}
}

// Probabilities returns |amplitude|² for every basis state
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.amplitudes))
	for i, a := range s.amplitudes {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// Norm returns the Euclidean norm of the amplitude vector
func (s *StateVector) Norm() float64 {
	sum := 0.0
	for _, p := range s.Probabilities() {
		sum += p
	}
	return math.Sqrt(sum)
}

// ExpvalZ returns ⟨Z⟩ on qubit q, a value in [-1, 1]
func (s *StateVector) ExpvalZ(q int) float64 {
	bit := s.mask(q)
	exp := 0.0
	for i, p := range s.Probabilities() {
		if i&bit == 0 {
			exp += p
		} else {
			exp -= p
		}
	}
	return exp
}

// Expval returns the expectation value of a Pauli observable on qubit q
func (s *StateVector) Expval(obs Observable, q int) (float64, error) {
	if q < 0 || q >= s.NumQubits {
		return 0, fmt.Errorf("qubit %d out of range [0, %d)", q, s.NumQubits)
	}

	switch obs {
	case ObservableZ:
		return s.ExpvalZ(q), nil
	case ObservableX, ObservableY:
		// rotate the measured axis onto Z, then measure Z
		rotated := s.Clone()
		if obs == ObservableX {
			rotated.ApplyMatrix(hadamard, q)
		} else {
			rotated.ApplyMatrix(hadamard.Mul(PhaseMatrix(-math.Pi/2)), q)
		}
		return rotated.ExpvalZ(q), nil
	default:
		return 0, fmt.Errorf("unsupported observable %q", obs)
	}
}

// Bitstring formats a basis-state index with qubit 0 first
func (s *StateVector) Bitstring(index int) string {
	return fmt.Sprintf("%0*b", s.NumQubits, index)
}

// String renders the state in Dirac notation, skipping zero amplitudes
func (s *StateVector) String() string {
	var b strings.Builder
	first := true
	for i, a := range s.amplitudes {
		if cmplx.Abs(a) < 1e-12 {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		first = false
		fmt.Fprintf(&b, "(%.4f%+.4fi)|%s⟩", real(a), imag(a), s.Bitstring(i))
	}
	if first {
		return "0"
	}
	return b.String()
}
