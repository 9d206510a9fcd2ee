package quantum

import (
	"fmt"
)

// Gate identifies a quantum gate by its OpenQASM-style name
type Gate string

const (
	GateI    Gate = "id"
	GateH    Gate = "h"
	GateX    Gate = "x"
	GateY    Gate = "y"
	GateZ    Gate = "z"
	GateRX   Gate = "rx"
	GateRY   Gate = "ry"
	GateRZ   Gate = "rz"
	GateP    Gate = "p"
	GateRot  Gate = "rot"
	GateCNOT Gate = "cx"
	GateCZ   Gate = "cz"
	GateSWAP Gate = "swap"
)

// arity returns the number of qubits a gate acts on
func (g Gate) arity() int {
	switch g {
	case GateCNOT, GateCZ, GateSWAP:
		return 2
	default:
		return 1
	}
}

// numParams returns the number of real parameters a gate takes
func (g Gate) numParams() int {
	switch g {
	case GateRX, GateRY, GateRZ, GateP:
		return 1
	case GateRot:
		return 3
	default:
		return 0
	}
}

// Operation is a single gate application inside a circuit
type Operation struct {
	Gate   Gate
	Qubits []int
	Params []float64
	// Labels optionally names each parameter symbolically (e.g. "θ[3]")
	// and is used by Draw in place of the numeric value
	Labels []string
}

// Validate checks the operation against the register size
func (op Operation) Validate(numQubits int) error {
	if len(op.Qubits) != op.Gate.arity() {
		return fmt.Errorf("gate %s expects %d qubits, got %d", op.Gate, op.Gate.arity(), len(op.Qubits))
	}
	if len(op.Params) != op.Gate.numParams() {
		return fmt.Errorf("gate %s expects %d parameters, got %d", op.Gate, op.Gate.numParams(), len(op.Params))
	}
	for _, q := range op.Qubits {
		if q < 0 || q >= numQubits {
			return fmt.Errorf("gate %s: qubit %d out of range [0, %d)", op.Gate, q, numQubits)
		}
	}
	if len(op.Qubits) == 2 && op.Qubits[0] == op.Qubits[1] {
		return fmt.Errorf("gate %s: control and target must differ", op.Gate)
	}
	return nil
}

// Circuit is an ordered list of operations on a fixed-size register
type Circuit struct {
	NumQubits  int
	Operations []Operation
}

// NewCircuit creates an empty circuit on numQubits qubits
func NewCircuit(numQubits int) *Circuit {
	return &Circuit{
		NumQubits:  numQubits,
		Operations: make([]Operation, 0),
	}
}

// Append adds an operation to the end of the circuit
func (c *Circuit) Append(op Operation) *Circuit {
	c.Operations = append(c.Operations, op)
	return c
}

// Compose appends every operation of other to c
func (c *Circuit) Compose(other *Circuit) *Circuit {
	c.Operations = append(c.Operations, other.Operations...)
	return c
}

// Len returns the number of operations in the circuit
func (c *Circuit) Len() int {
	return len(c.Operations)
}

// CountGates returns how many operations use each gate
func (c *Circuit) CountGates() map[Gate]int {
	counts := make(map[Gate]int)
	for _, op := range c.Operations {
		counts[op.Gate]++
	}
	return counts
}

// Validate checks every operation against the register size
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 {
		return fmt.Errorf("circuit must have at least one qubit")
	}
	for i, op := range c.Operations {
		if err := op.Validate(c.NumQubits); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

func (c *Circuit) single(g Gate, q int, params ...float64) *Circuit {
	return c.Append(Operation{Gate: g, Qubits: []int{q}, Params: params})
}

func (c *Circuit) double(g Gate, a, b int) *Circuit {
	return c.Append(Operation{Gate: g, Qubits: []int{a, b}})
}

// H applies a Hadamard gate
func (c *Circuit) H(q int) *Circuit { return c.single(GateH, q) }

// X applies a Pauli-X (bit flip) gate
func (c *Circuit) X(q int) *Circuit { return c.single(GateX, q) }

// Y applies a Pauli-Y gate
func (c *Circuit) Y(q int) *Circuit { return c.single(GateY, q) }

// Z applies a Pauli-Z gate
func (c *Circuit) Z(q int) *Circuit { return c.single(GateZ, q) }

// RX applies a rotation about the X axis
func (c *Circuit) RX(theta float64, q int) *Circuit { return c.single(GateRX, q, theta) }

// RY applies a rotation about the Y axis
func (c *Circuit) RY(theta float64, q int) *Circuit { return c.single(GateRY, q, theta) }

// RZ applies a rotation about the Z axis
func (c *Circuit) RZ(theta float64, q int) *Circuit { return c.single(GateRZ, q, theta) }

// P applies a phase gate diag(1, e^{iλ})
func (c *Circuit) P(lambda float64, q int) *Circuit { return c.single(GateP, q, lambda) }

// Rot applies the general rotation RZ(omega)·RY(theta)·RZ(phi)
func (c *Circuit) Rot(phi, theta, omega float64, q int) *Circuit {
	return c.single(GateRot, q, phi, theta, omega)
}

// CNOT applies a controlled-NOT with the given control and target
func (c *Circuit) CNOT(control, target int) *Circuit { return c.double(GateCNOT, control, target) }

// CZ applies a controlled-Z
func (c *Circuit) CZ(control, target int) *Circuit { return c.double(GateCZ, control, target) }

// SWAP exchanges two qubits
func (c *Circuit) SWAP(a, b int) *Circuit { return c.double(GateSWAP, a, b) }

// Label attaches symbolic parameter names to the most recently added operation
func (c *Circuit) Label(labels ...string) *Circuit {
	if n := len(c.Operations); n > 0 {
		c.Operations[n-1].Labels = labels
	}
	return c
}

// ParamIndex addresses one real parameter inside a circuit
type ParamIndex struct {
	Op    int
	Param int
}

// Shifted returns a copy of the circuit with one parameter moved by delta
func (c *Circuit) Shifted(idx ParamIndex, delta float64) *Circuit {
	out := &Circuit{
		NumQubits:  c.NumQubits,
		Operations: make([]Operation, len(c.Operations)),
	}
	copy(out.Operations, c.Operations)

	op := out.Operations[idx.Op]
	params := make([]float64, len(op.Params))
	copy(params, op.Params)
	params[idx.Param] += delta
	op.Params = params
	out.Operations[idx.Op] = op

	return out
}
