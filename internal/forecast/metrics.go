package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metrics summarizes model quality on one evaluation set.
type Metrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// RMSE is the root mean squared error between predictions and actuals.
// Slices must be equal length and non-empty; callers guarantee this.
func RMSE(predicted, actual []float64) float64 {
	sum := 0.0
	for i := range predicted {
		d := predicted[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted)))
}

// MAE is the mean absolute error between predictions and actuals.
func MAE(predicted, actual []float64) float64 {
	sum := 0.0
	for i := range predicted {
		sum += math.Abs(predicted[i] - actual[i])
	}
	return sum / float64(len(predicted))
}

// RSquared is the coefficient of determination. It is NaN when the actuals
// have zero variance; callers display it as-is rather than inventing a
// value.
func RSquared(predicted, actual []float64) float64 {
	return stat.RSquaredFrom(predicted, actual, nil)
}

// Evaluate computes all metrics for a model over an evaluation set.
func Evaluate(m Model, x [][]float64, y []float64) Metrics {
	predicted := make([]float64, len(x))
	for i, row := range x {
		predicted[i] = m.Predict(row)
	}
	return Metrics{
		RMSE: RMSE(predicted, y),
		MAE:  MAE(predicted, y),
		R2:   RSquared(predicted, y),
	}
}

// residualStd is the sample standard deviation of prediction residuals on
// an evaluation set, used to widen point predictions into intervals.
func residualStd(m Model, x [][]float64, y []float64) float64 {
	residuals := make([]float64, len(x))
	for i, row := range x {
		residuals[i] = y[i] - m.Predict(row)
	}
	return stat.StdDev(residuals, nil)
}
