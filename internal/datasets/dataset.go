// Package datasets loads delimited feature/label files into gonum matrices
// and splits them into train and validation sets.
package datasets

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
	"gonum.org/v1/gonum/mat"

	models "github.com/jaskrrish/Go-QML/internal/models/qml"
)

// Dataset holds one feature row per sample and the matching labels
type Dataset struct {
	X *mat.Dense
	Y []float64
}

// New wraps row-major features and labels into a dataset
func New(rows [][]float64, labels []float64) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, models.ErrEmptyDataset
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("%d feature rows but %d labels", len(rows), len(labels))
	}

	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("feature rows are empty")
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}

	y := make([]float64, len(labels))
	copy(y, labels)

	return &Dataset{X: mat.NewDense(len(rows), cols, data), Y: y}, nil
}

// Len returns the number of samples
func (d *Dataset) Len() int {
	return len(d.Y)
}

// NumFeatures returns the number of feature columns
func (d *Dataset) NumFeatures() int {
	_, c := d.X.Dims()
	return c
}

// Row returns a copy of sample i's features
func (d *Dataset) Row(i int) []float64 {
	return mat.Row(nil, i, d.X)
}

// Rows returns copies of every feature row
func (d *Dataset) Rows() [][]float64 {
	rows := make([][]float64, d.Len())
	for i := range rows {
		rows[i] = d.Row(i)
	}
	return rows
}

// Subset returns a new dataset made of the given sample indices, in order
func (d *Dataset) Subset(indices []int) (*Dataset, error) {
	if len(indices) == 0 {
		return nil, models.ErrEmptyDataset
	}

	rows := make([][]float64, len(indices))
	labels := make([]float64, len(indices))
	for k, i := range indices {
		if i < 0 || i >= d.Len() {
			return nil, fmt.Errorf("index %d out of range [0, %d)", i, d.Len())
		}
		rows[k] = d.Row(i)
		labels[k] = d.Y[i]
	}

	return New(rows, labels)
}

// Fingerprint returns the hex SHA3-256 digest of the features and labels
func (d *Dataset) Fingerprint() string {
	h := sha3.New256()
	r, c := d.X.Dims()
	buf := make([]byte, 8)

	binary.LittleEndian.PutUint64(buf, uint64(r))
	h.Write(buf)
	binary.LittleEndian.PutUint64(buf, uint64(c))
	h.Write(buf)

	for i := 0; i < r; i++ {
		for _, v := range d.X.RawRowView(i) {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			h.Write(buf)
		}
		binary.LittleEndian.PutUint64(buf, math.Float64bits(d.Y[i]))
		h.Write(buf)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// LoadFile reads a comma-separated dataset from path; see Parse
func LoadFile(path string, numFeatures int) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	d, err := Parse(f, numFeatures)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return d, nil
}

// Parse reads comma-separated rows. Each row holds numFeatures feature
// columns; the last column is the label. Columns between the features and
// the label are ignored. Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader, numFeatures int) (*Dataset, error) {
	if numFeatures < 1 {
		return nil, fmt.Errorf("numFeatures must be positive, got %d", numFeatures)
	}

	var rows [][]float64
	var labels []float64

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < numFeatures+1 {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d", lineNo, numFeatures+1, len(fields))
		}

		values := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %w", lineNo, i+1, err)
			}
			values[i] = v
		}

		rows = append(rows, values[:numFeatures])
		labels = append(labels, values[len(values)-1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return New(rows, labels)
}
