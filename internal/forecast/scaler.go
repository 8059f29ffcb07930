package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes feature columns to zero mean and unit variance. Its
// parameters are fitted once per training run on the training partition and
// persisted inside the model artifact; inference applies the stored
// parameters unchanged so feature semantics stay fixed between training
// and serving.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-column mean and population standard deviation.
func FitScaler(x [][]float64) (*Scaler, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty feature matrix", ErrTrainingData)
	}
	d := len(x[0])
	if d == 0 {
		return nil, fmt.Errorf("%w: zero-width feature rows", ErrTrainingData)
	}
	for i, row := range x {
		if len(row) != d {
			return nil, fmt.Errorf("%w: row %d has %d features, expected %d", ErrTrainingData, i, len(row), d)
		}
	}

	col := make([]float64, len(x))
	s := &Scaler{
		Mean: make([]float64, d),
		Std:  make([]float64, d),
	}
	for j := 0; j < d; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = stat.PopStdDev(col, nil)
	}
	return s, nil
}

// Width returns the number of columns the scaler was fitted on.
func (s *Scaler) Width() int {
	return len(s.Mean)
}

// Transform standardizes one row: (x - mean) / std per column. Columns
// with zero variance pass through centered but unscaled, matching the
// usual standard-scaler convention.
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("%w: expected %d features, got %d", ErrFeatureSchema, len(s.Mean), len(row))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		sd := s.Std[j]
		if sd == 0 {
			sd = 1
		}
		out[j] = (v - s.Mean[j]) / sd
	}
	return out, nil
}

// TransformMatrix standardizes every row.
func (s *Scaler) TransformMatrix(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		t, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}
