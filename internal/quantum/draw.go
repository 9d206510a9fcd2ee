package quantum

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	wire      = "─"
	control   = "●"
	target    = "⊕"
	crossing  = "┼"
	swapMark  = "x"
	czTarget  = "●"
	foldBreak = "»"
)

// Draw renders the circuit as a text diagram with one column per operation.
// With fold > 0, the diagram is wrapped every fold columns.
func (c *Circuit) Draw(fold int) string {
	columns := make([][]string, 0, len(c.Operations))
	for _, op := range c.Operations {
		columns = append(columns, c.column(op))
	}

	if fold <= 0 || fold > len(columns) {
		fold = len(columns)
	}

	var b strings.Builder
	if len(columns) == 0 {
		c.drawBlock(&b, nil, false, false)
		return b.String()
	}

	for start := 0; start < len(columns); start += fold {
		end := start + fold
		if end > len(columns) {
			end = len(columns)
		}
		if start > 0 {
			b.WriteString("\n")
		}
		c.drawBlock(&b, columns[start:end], start > 0, end < len(columns))
	}

	return b.String()
}

func (c *Circuit) drawBlock(b *strings.Builder, columns [][]string, continued, more bool) {
	labelWidth := len(fmt.Sprintf("q_%d: ", c.NumQubits-1))

	for q := 0; q < c.NumQubits; q++ {
		label := fmt.Sprintf("q_%d: ", q)
		b.WriteString(label + strings.Repeat(" ", labelWidth-len(label)))
		if continued {
			b.WriteString(foldBreak)
		}
		b.WriteString(wire)
		for _, col := range columns {
			b.WriteString(col[q])
			b.WriteString(wire)
		}
		if more {
			b.WriteString(foldBreak)
		}
		b.WriteString("\n")
	}
}

// column renders one operation as equal-width cells, one per qubit
func (c *Circuit) column(op Operation) []string {
	cells := make([]string, c.NumQubits)

	switch op.Gate {
	case GateCNOT, GateCZ, GateSWAP:
		a, t := op.Qubits[0], op.Qubits[1]
		lo, hi := a, t
		if lo > hi {
			lo, hi = hi, lo
		}
		for q := lo + 1; q < hi; q++ {
			cells[q] = crossing
		}
		switch op.Gate {
		case GateCNOT:
			cells[a], cells[t] = control, target
		case GateCZ:
			cells[a], cells[t] = control, czTarget
		case GateSWAP:
			cells[a], cells[t] = swapMark, swapMark
		}
	default:
		cells[op.Qubits[0]] = opLabel(op)
	}

	width := 1
	for _, cell := range cells {
		if n := utf8.RuneCountInString(cell); n > width {
			width = n
		}
	}

	for q := range cells {
		cells[q] = pad(cells[q], width)
	}

	return cells
}

// opLabel names a single-qubit operation with its parameters
func opLabel(op Operation) string {
	name := strings.ToUpper(string(op.Gate))
	if op.Gate == GateRot {
		name = "Rot"
	}
	if len(op.Params) == 0 {
		return name
	}

	params := make([]string, len(op.Params))
	for i, p := range op.Params {
		if i < len(op.Labels) && op.Labels[i] != "" {
			params[i] = op.Labels[i]
		} else {
			params[i] = fmt.Sprintf("%.2f", p)
		}
	}

	return fmt.Sprintf("%s(%s)", name, strings.Join(params, ","))
}

// pad centers s in a field of wire characters
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if s == "" {
		return strings.Repeat(wire, width)
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(wire, left) + s + strings.Repeat(wire, right)
}
