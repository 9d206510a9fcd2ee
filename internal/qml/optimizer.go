package qml

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultStepSize = 0.01
	DefaultMomentum = 0.9
)

// GradFunc returns the gradient of the objective at params
type GradFunc func(params []float64) ([]float64, error)

// NesterovOptimizer is gradient descent with Nesterov momentum. The
// velocity is kept between calls to Step.
type NesterovOptimizer struct {
	StepSize float64
	Momentum float64
	velocity []float64
}

// NewNesterovOptimizer creates an optimizer with no accumulated velocity
func NewNesterovOptimizer(stepSize, momentum float64) *NesterovOptimizer {
	return &NesterovOptimizer{
		StepSize: stepSize,
		Momentum: momentum,
	}
}

// Velocity returns a copy of the accumulated velocity (nil before the first step)
func (o *NesterovOptimizer) Velocity() []float64 {
	if o.velocity == nil {
		return nil
	}
	return append([]float64(nil), o.velocity...)
}

// Reset drops the accumulated velocity
func (o *NesterovOptimizer) Reset() {
	o.velocity = nil
}

// Step evaluates the gradient at the look-ahead point params − momentum·v
// and returns the updated parameters
func (o *NesterovOptimizer) Step(params []float64, grad GradFunc) ([]float64, error) {
	velocity := o.velocity
	if velocity == nil {
		velocity = make([]float64, len(params))
	}
	if len(velocity) != len(params) {
		return nil, fmt.Errorf("optimizer holds %d velocities for %d parameters", len(velocity), len(params))
	}

	lookahead := append([]float64(nil), params...)
	floats.AddScaled(lookahead, -o.Momentum, velocity)

	g, err := grad(lookahead)
	if err != nil {
		return nil, fmt.Errorf("gradient evaluation failed: %w", err)
	}
	if len(g) != len(params) {
		return nil, fmt.Errorf("gradient has %d entries for %d parameters", len(g), len(params))
	}

	next, nextVelocity := NesterovUpdate(params, velocity, g, o.StepSize, o.Momentum)
	o.velocity = nextVelocity

	return next, nil
}

// NesterovUpdate applies v' = momentum·v + stepSize·g and x' = x − v',
// where g was evaluated at the look-ahead point. Inputs are not modified.
func NesterovUpdate(params, velocity, grad []float64, stepSize, momentum float64) ([]float64, []float64) {
	nextVelocity := make([]float64, len(velocity))
	floats.ScaleTo(nextVelocity, momentum, velocity)
	floats.AddScaled(nextVelocity, stepSize, grad)

	next := append([]float64(nil), params...)
	floats.Sub(next, nextVelocity)

	return next, nextVelocity
}
