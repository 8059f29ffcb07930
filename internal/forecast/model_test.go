package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithms_RegisteredSet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		AlgorithmGradientBoosting,
		AlgorithmRandomForest,
		AlgorithmRidge,
	}, Algorithms())

	for _, name := range Algorithms() {
		assert.True(t, Registered(name))
	}
	assert.False(t, Registered("linear_svm"))
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := New("perceptron", 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
	assert.Contains(t, err.Error(), "perceptron")
}

func TestNew_FreshInstancePerCall(t *testing.T) {
	t.Parallel()

	a, err := New(AlgorithmRidge, 1)
	require.NoError(t, err)
	b, err := New(AlgorithmRidge, 1)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		Register(AlgorithmRidge, func(_ int64) Model { return newRidge(1) })
	})
}

func TestValidateTrainingShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		x    [][]float64
		y    []float64
	}{
		{"empty matrix", nil, nil},
		{"row target mismatch", [][]float64{{1, 2}}, []float64{1, 2}},
		{"zero width rows", [][]float64{{}, {}}, []float64{1, 2}},
		{"ragged rows", [][]float64{{1, 2}, {1}}, []float64{1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := validateTrainingShape(tc.x, tc.y)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTrainingData))
		})
	}

	n, d, err := validateTrainingShape([][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, d)
}
