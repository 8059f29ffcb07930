package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMSE(t *testing.T) {
	t.Parallel()

	predicted := []float64{1, 2, 3}
	actual := []float64{1, 2, 3}
	assert.InDelta(t, 0.0, RMSE(predicted, actual), 1e-12)

	// Errors {3, 0, -3}: mean squared error 6, root sqrt(6).
	assert.InDelta(t, math.Sqrt(6), RMSE([]float64{4, 2, 0}, actual), 1e-12)
}

func TestMAE(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, MAE([]float64{4, 2, 0}, []float64{1, 2, 3}), 1e-12)
}

func TestRSquared(t *testing.T) {
	t.Parallel()

	actual := []float64{2, 4, 6, 8}

	assert.InDelta(t, 1.0, RSquared(actual, actual), 1e-12)

	// Predicting the mean explains none of the variance.
	mean := []float64{5, 5, 5, 5}
	assert.InDelta(t, 0.0, RSquared(mean, actual), 1e-12)

	// Zero-variance actuals leave the ratio undefined.
	assert.True(t, math.IsNaN(RSquared([]float64{1, 2}, []float64{3, 3})))
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	r := newRidge(defaultRidgeLambda)
	x := make([][]float64, 50)
	y := make([]float64, 50)
	for i := range x {
		x[i] = []float64{float64(i)}
		y[i] = 3 + 2*float64(i)
	}
	require.NoError(t, r.Fit(x, y))

	m := Evaluate(r, x, y)
	assert.Less(t, m.RMSE, 0.1)
	assert.Less(t, m.MAE, 0.1)
	assert.Greater(t, m.R2, 0.999)
}

func TestResidualStd(t *testing.T) {
	t.Parallel()

	r := newRidge(defaultRidgeLambda)
	x := make([][]float64, 20)
	y := make([]float64, 20)
	for i := range x {
		x[i] = []float64{float64(i)}
		y[i] = 1 + 2*float64(i)
	}
	require.NoError(t, r.Fit(x, y))

	// Near-perfect linear fit leaves near-zero residual spread.
	assert.Less(t, residualStd(r, x, y), 0.1)
}
