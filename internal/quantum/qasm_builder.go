package quantum

import (
	"fmt"
	"strconv"
	"strings"
)

// QASMBuilder builds OpenQASM 2.0 programs
type QASMBuilder struct {
	version      string
	includeStmt  string
	registers    []string
	gates        []string
	measurements []string
}

// NewQASMBuilder creates a new OpenQASM circuit builder
func NewQASMBuilder(numQubits int, numClassical int) *QASMBuilder {
	builder := &QASMBuilder{
		version:      "OPENQASM 2.0;",
		includeStmt:  "include \"qelib1.inc\";",
		registers:    make([]string, 0),
		gates:        make([]string, 0),
		measurements: make([]string, 0),
	}

	builder.registers = append(builder.registers, fmt.Sprintf("qreg q[%d];", numQubits))
	if numClassical > 0 {
		builder.registers = append(builder.registers, fmt.Sprintf("creg c[%d];", numClassical))
	}

	return builder
}

// AddGate adds a raw quantum gate statement
func (b *QASMBuilder) AddGate(gate string) {
	b.gates = append(b.gates, gate)
}

// AddOperation translates a circuit operation into QASM statements
func (b *QASMBuilder) AddOperation(op Operation) error {
	switch op.Gate {
	case GateRot:
		// qelib1 has no Rot; expand into its Euler decomposition
		q := op.Qubits[0]
		b.AddGate(fmt.Sprintf("rz(%s) q[%d];", formatAngle(op.Params[0]), q))
		b.AddGate(fmt.Sprintf("ry(%s) q[%d];", formatAngle(op.Params[1]), q))
		b.AddGate(fmt.Sprintf("rz(%s) q[%d];", formatAngle(op.Params[2]), q))
	case GateP:
		// qelib1 names the phase gate u1
		b.AddGate(fmt.Sprintf("u1(%s) q[%d];", formatAngle(op.Params[0]), op.Qubits[0]))
	case GateRX, GateRY, GateRZ:
		b.AddGate(fmt.Sprintf("%s(%s) q[%d];", op.Gate, formatAngle(op.Params[0]), op.Qubits[0]))
	case GateCNOT, GateCZ, GateSWAP:
		b.AddGate(fmt.Sprintf("%s q[%d],q[%d];", op.Gate, op.Qubits[0], op.Qubits[1]))
	case GateI, GateH, GateX, GateY, GateZ:
		b.AddGate(fmt.Sprintf("%s q[%d];", op.Gate, op.Qubits[0]))
	default:
		return fmt.Errorf("gate %s has no QASM form", op.Gate)
	}
	return nil
}

// AddMeasurement adds a measurement operation
func (b *QASMBuilder) AddMeasurement(qubit int, classical int) {
	b.measurements = append(b.measurements,
		fmt.Sprintf("measure q[%d] -> c[%d];", qubit, classical))
}

// Build generates the complete QASM circuit string
func (b *QASMBuilder) Build() string {
	var circuit strings.Builder

	circuit.WriteString(b.version + "\n")
	circuit.WriteString(b.includeStmt + "\n")
	circuit.WriteString("\n")

	for _, reg := range b.registers {
		circuit.WriteString(reg + "\n")
	}
	circuit.WriteString("\n")

	for _, gate := range b.gates {
		circuit.WriteString(gate + "\n")
	}

	if len(b.measurements) > 0 {
		circuit.WriteString("\n")
		for _, meas := range b.measurements {
			circuit.WriteString(meas + "\n")
		}
	}

	return circuit.String()
}

// QASM renders the circuit as OpenQASM 2.0. With measure set, every qubit is
// measured into a classical register of the same size.
func (c *Circuit) QASM(measure bool) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	numClassical := 0
	if measure {
		numClassical = c.NumQubits
	}
	builder := NewQASMBuilder(c.NumQubits, numClassical)

	for i, op := range c.Operations {
		if err := builder.AddOperation(op); err != nil {
			return "", fmt.Errorf("operation %d: %w", i, err)
		}
	}

	if measure {
		for q := 0; q < c.NumQubits; q++ {
			builder.AddMeasurement(q, q)
		}
	}

	return builder.Build(), nil
}

func formatAngle(theta float64) string {
	return strconv.FormatFloat(theta, 'g', 10, 64)
}
