package quantum

import (
	"fmt"
	"math"
)

// ShiftAngle is the parameter offset of the two-term shift rule
const ShiftAngle = math.Pi / 2

// ParameterShift returns d⟨obs⟩/dθ for one circuit parameter using
// [f(θ+π/2) − f(θ−π/2)] / 2. The rule is exact for every gate whose
// ShiftRule reports true.
func ParameterShift(b Backend, c *Circuit, idx ParamIndex, obs Observable, qubit int) (float64, error) {
	if idx.Op < 0 || idx.Op >= len(c.Operations) {
		return 0, fmt.Errorf("operation index %d out of range", idx.Op)
	}
	op := c.Operations[idx.Op]
	if idx.Param < 0 || idx.Param >= len(op.Params) {
		return 0, fmt.Errorf("operation %d (%s) has no parameter %d", idx.Op, op.Gate, idx.Param)
	}
	if !op.Gate.ShiftRule() {
		return 0, fmt.Errorf("gate %s does not support the parameter-shift rule", op.Gate)
	}

	plus, err := b.Expval(c.Shifted(idx, ShiftAngle), obs, qubit)
	if err != nil {
		return 0, err
	}
	minus, err := b.Expval(c.Shifted(idx, -ShiftAngle), obs, qubit)
	if err != nil {
		return 0, err
	}

	return (plus - minus) / 2, nil
}
