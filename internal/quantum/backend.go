package quantum

import (
	"fmt"
	"math/rand"
	"sort"
)

// Observable names a single-qubit Pauli observable
type Observable string

const (
	ObservableX Observable = "X"
	ObservableY Observable = "Y"
	ObservableZ Observable = "Z"
)

// Backend defines the interface for circuit execution engines
type Backend interface {
	// Name returns the name of the backend
	Name() string

	// Run executes the circuit from |0...0⟩ and returns the final state
	Run(c *Circuit) (*StateVector, error)

	// Expval returns the expectation value of obs on the given qubit
	Expval(c *Circuit, obs Observable, qubit int) (float64, error)

	// Probabilities returns the basis-state distribution after the circuit
	Probabilities(c *Circuit) ([]float64, error)

	// IsSimulator returns true if this is a simulator, false for real hardware
	IsSimulator() bool
}

// SimulatorBackend executes circuits on an exact state-vector simulator.
// With shots > 0, Probabilities is estimated from sampled counts instead of
// the exact distribution.
type SimulatorBackend struct {
	name  string
	shots int
	rng   *rand.Rand
}

// NewSimulatorBackend creates an exact (shot-free) simulator backend
func NewSimulatorBackend() *SimulatorBackend {
	return &SimulatorBackend{
		name: "StateVectorSimulator",
	}
}

// NewSampledSimulatorBackend creates a simulator that estimates probabilities
// from a finite number of shots drawn from rng
func NewSampledSimulatorBackend(shots int, rng *rand.Rand) *SimulatorBackend {
	return &SimulatorBackend{
		name:  "StateVectorSimulator",
		shots: shots,
		rng:   rng,
	}
}

// Name returns the name of the simulator backend
func (s *SimulatorBackend) Name() string {
	return s.name
}

// Shots returns the configured shot count, 0 for exact simulation
func (s *SimulatorBackend) Shots() int {
	return s.shots
}

// Run simulates the circuit and returns the final state
func (s *SimulatorBackend) Run(c *Circuit) (*StateVector, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}

	state := NewStateVector(c.NumQubits)
	if err := state.ApplyCircuit(c); err != nil {
		return nil, err
	}

	return state, nil
}

// Expval simulates the circuit and measures obs on qubit. It is always exact.
func (s *SimulatorBackend) Expval(c *Circuit, obs Observable, qubit int) (float64, error) {
	state, err := s.Run(c)
	if err != nil {
		return 0, err
	}
	return state.Expval(obs, qubit)
}

// Probabilities simulates the circuit and returns the outcome distribution
func (s *SimulatorBackend) Probabilities(c *Circuit) ([]float64, error) {
	state, err := s.Run(c)
	if err != nil {
		return nil, err
	}

	probs := state.Probabilities()
	if s.shots <= 0 {
		return probs, nil
	}

	counts := SampleCounts(probs, c.NumQubits, s.shots, s.rng)
	estimated := make([]float64, len(probs))
	for outcome, p := range CountsToProbabilities(counts) {
		idx, err := parseBitstring(outcome)
		if err != nil {
			return nil, err
		}
		estimated[idx] = p
	}

	return estimated, nil
}

// IsSimulator returns true since this is a simulator
func (s *SimulatorBackend) IsSimulator() bool {
	return true
}

// SampleCounts draws shots outcomes from probs and returns counts keyed by
// bitstring (qubit 0 first)
func SampleCounts(probs []float64, numQubits, shots int, rng *rand.Rand) map[string]int {
	cumulative := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		total += p
		cumulative[i] = total
	}

	counts := make(map[string]int)
	for i := 0; i < shots; i++ {
		r := rng.Float64() * total
		idx := sort.Search(len(cumulative), func(j int) bool { return cumulative[j] > r })
		if idx >= len(probs) {
			idx = len(probs) - 1
		}
		counts[fmt.Sprintf("%0*b", numQubits, idx)]++
	}

	return counts
}

// CountsToProbabilities calculates probabilities from measurement counts
func CountsToProbabilities(counts map[string]int) map[string]float64 {
	totalShots := 0
	for _, count := range counts {
		totalShots += count
	}

	probabilities := make(map[string]float64)
	if totalShots == 0 {
		return probabilities
	}
	for outcome, count := range counts {
		probabilities[outcome] = float64(count) / float64(totalShots)
	}

	return probabilities
}

// MostFrequent returns the outcome with the highest count, breaking ties by
// the lexicographically smaller bitstring
func MostFrequent(counts map[string]int) string {
	maxCount := -1
	maxOutcome := ""

	for outcome, count := range counts {
		if count > maxCount || (count == maxCount && outcome < maxOutcome) {
			maxCount = count
			maxOutcome = outcome
		}
	}

	return maxOutcome
}

func parseBitstring(bits string) (int, error) {
	idx := 0
	for _, ch := range bits {
		idx <<= 1
		switch ch {
		case '0':
		case '1':
			idx |= 1
		default:
			return 0, fmt.Errorf("invalid bitstring %q", bits)
		}
	}
	return idx, nil
}
