package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jaskrrish/Go-QML/internal/quantum"
)

// Prints the ZZ feature map and RealAmplitudes ansatz used by the VQC.
// Diagrams show the symbolic parameter labels; OpenQASM needs concrete
// angles, so it is only printed for circuits whose values were passed in
// with -x and -theta.

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("draw_circuits", flag.ContinueOnError)
	numQubits := fs.Int("qubits", 3, "number of qubits")
	featureReps := fs.Int("feature-reps", 1, "ZZ feature map repetitions")
	ansatzReps := fs.Int("ansatz-reps", 3, "RealAmplitudes repetitions")
	fold := fs.Int("fold", 20, "columns per row of the diagram (0 disables folding)")
	qasm := fs.Bool("qasm", false, "also print OpenQASM 2.0 for bound circuits")
	xFlag := fs.String("x", "", "comma-separated feature values binding the feature map")
	thetaFlag := fs.String("theta", "", "comma-separated weights binding the ansatz")
	if err := fs.Parse(args); err != nil {
		return err
	}

	x, err := parseValues(*xFlag, *numQubits)
	if err != nil {
		return fmt.Errorf("invalid -x: %w", err)
	}
	theta, err := parseValues(*thetaFlag, quantum.RealAmplitudesParams(*numQubits, *ansatzReps))
	if err != nil {
		return fmt.Errorf("invalid -theta: %w", err)
	}

	fm, err := quantum.ZZFeatureMap(orZeros(x, *numQubits), *featureReps)
	if err != nil {
		return fmt.Errorf("failed to build feature map: %w", err)
	}
	ansatz, err := quantum.RealAmplitudes(*numQubits, *ansatzReps,
		orZeros(theta, quantum.RealAmplitudesParams(*numQubits, *ansatzReps)))
	if err != nil {
		return fmt.Errorf("failed to build ansatz: %w", err)
	}

	for _, item := range []struct {
		title   string
		circuit *quantum.Circuit
		bound   bool
		flag    string
	}{
		{fmt.Sprintf("ZZFeatureMap (%d qubits, reps=%d)", *numQubits, *featureReps), fm, x != nil, "-x"},
		{fmt.Sprintf("RealAmplitudes (%d qubits, reps=%d)", *numQubits, *ansatzReps), ansatz, theta != nil, "-theta"},
	} {
		fmt.Fprintln(out, item.title)
		fmt.Fprintln(out, item.circuit.Draw(*fold))

		if !*qasm {
			continue
		}
		if !item.bound {
			fmt.Fprintf(out, "OpenQASM skipped: pass %s to bind the parameters\n\n", item.flag)
			continue
		}
		src, err := item.circuit.QASM(false)
		if err != nil {
			return fmt.Errorf("failed to export QASM: %w", err)
		}
		fmt.Fprintln(out, src)
	}

	return nil
}

// parseValues reads a comma-separated list of exactly want floats. An empty
// string yields nil.
func parseValues(s string, want int) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	fields := strings.Split(s, ",")
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d values, got %d", want, len(fields))
	}

	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

func orZeros(values []float64, n int) []float64 {
	if values == nil {
		return make([]float64, n)
	}
	return values
}
