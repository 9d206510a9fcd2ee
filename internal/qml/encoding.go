package qml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

const (
	// Epsilon keeps the angle denominators away from zero
	Epsilon = 1e-12

	// PaddingValue fills the third entry of a padded feature vector
	PaddingValue = 0.3

	// FeatureLength is the size of a padded feature vector (2^NumQubits)
	FeatureLength = 1 << NumQubits
)

// Angles are the five state-preparation rotation angles of one sample
type Angles [5]float64

// Pad extends a two-feature sample to [x0, x1, 0.3, 0]. Features past the
// second are dropped.
func Pad(x []float64) ([]float64, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("%w: need 2 raw features, got %d", models.ErrFeatureLength, len(x))
	}

	padded := make([]float64, FeatureLength)
	copy(padded, x[:2])
	padded[2] = PaddingValue
	return padded, nil
}

// Normalize returns x divided by its Euclidean norm
func Normalize(x []float64) ([]float64, error) {
	norm := floats.Norm(x, 2)
	if norm == 0 {
		return nil, models.ErrZeroVector
	}

	out := make([]float64, len(x))
	floats.ScaleTo(out, 1/norm, x)
	return out, nil
}

// GetAngles maps a normalized 4-vector to the angles that amplitude-encode
// it through StatePreparation
func GetAngles(x []float64) (Angles, error) {
	if len(x) != FeatureLength {
		return Angles{}, models.ErrFeatureLength
	}

	upper := x[0]*x[0] + x[1]*x[1]
	lower := x[2]*x[2] + x[3]*x[3]

	beta0 := 2 * clampedAsin(math.Abs(x[1])/math.Sqrt(upper+Epsilon))
	beta1 := 2 * clampedAsin(math.Abs(x[3])/math.Sqrt(lower+Epsilon))
	beta2 := 2 * clampedAsin(math.Sqrt(lower)/math.Sqrt(upper+lower+Epsilon))

	return Angles{beta2, -beta1 / 2, beta1 / 2, -beta0 / 2, beta0 / 2}, nil
}

// EncodedSample keeps every intermediate form of one input row
type EncodedSample struct {
	Original   []float64
	Padded     []float64
	Normalized []float64
	Angles     Angles
}

// Encode pads, normalizes and converts a two-feature sample to angles
func Encode(x []float64) (EncodedSample, error) {
	padded, err := Pad(x)
	if err != nil {
		return EncodedSample{}, err
	}
	normalized, err := Normalize(padded)
	if err != nil {
		return EncodedSample{}, err
	}
	angles, err := GetAngles(normalized)
	if err != nil {
		return EncodedSample{}, err
	}

	return EncodedSample{
		Original:   append([]float64(nil), x[:2]...),
		Padded:     padded,
		Normalized: normalized,
		Angles:     angles,
	}, nil
}

// EncodeAll encodes every row; the first failing row aborts with its index
func EncodeAll(rows [][]float64) ([]EncodedSample, error) {
	out := make([]EncodedSample, len(rows))
	for i, row := range rows {
		s, err := Encode(row)
		if err != nil {
			return nil, &RowError{Row: i, Err: err}
		}
		out[i] = s
	}
	return out, nil
}

// AnglesOf extracts the angle vectors of encoded samples
func AnglesOf(samples []EncodedSample) []Angles {
	out := make([]Angles, len(samples))
	for i, s := range samples {
		out[i] = s.Angles
	}
	return out
}

// RowError wraps an encoding failure with the offending row
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func clampedAsin(v float64) float64 {
	return math.Asin(math.Max(-1, math.Min(1, v)))
}
