package forecast

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// AlgorithmRidge is the registry name of the L2-regularized linear model.
const AlgorithmRidge = "ridge"

// defaultRidgeLambda is the L2 penalty applied to every weight except the
// intercept.
const defaultRidgeLambda = 1.0

//nolint:gochecknoinits // algorithm self-registration
func init() {
	Register(AlgorithmRidge, func(_ int64) Model {
		return newRidge(defaultRidgeLambda)
	})
}

// ridge is linear regression with an L2 penalty, solved in closed form via
// Cholesky factorization of the regularized normal equations:
//
//	(XᵀX + λI) w = Xᵀy
//
// The intercept column is not penalized. Ridge is the deterministic
// baseline candidate: no randomness, cheap to train, and its weights give
// directly interpretable importances.
type ridge struct {
	lambda    float64
	intercept float64
	weights   []float64
	fitted    bool
}

func newRidge(lambda float64) *ridge {
	return &ridge{lambda: lambda}
}

// Name returns the algorithm identifier.
func (r *ridge) Name() string { return AlgorithmRidge }

// Fit solves the regularized normal equations over the training matrix.
func (r *ridge) Fit(x [][]float64, y []float64) error {
	n, d, err := validateTrainingShape(x, y)
	if err != nil {
		return err
	}

	// Design matrix with a leading ones column for the intercept.
	wide := d + 1
	design := mat.NewDense(n, wide, nil)
	for i, row := range x {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	normal := mat.NewSymDense(wide, nil)
	for i := 0; i < wide; i++ {
		for j := i; j < wide; j++ {
			v := xtx.At(i, j)
			if i == j && i > 0 {
				v += r.lambda
			}
			normal.SetSym(i, j, v)
		}
	}

	xty := mat.NewVecDense(wide, nil)
	for j := 0; j < wide; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += design.At(i, j) * y[i]
		}
		xty.SetVec(j, sum)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(normal); !ok {
		return fmt.Errorf("ridge: normal matrix not positive definite (n=%d, d=%d)", n, d)
	}

	solution := mat.NewVecDense(wide, nil)
	if err := chol.SolveVecTo(solution, xty); err != nil {
		return fmt.Errorf("ridge: solving normal equations: %w", err)
	}

	r.intercept = solution.AtVec(0)
	r.weights = make([]float64, d)
	for j := 0; j < d; j++ {
		r.weights[j] = solution.AtVec(j + 1)
	}
	r.fitted = true
	return nil
}

// Predict returns intercept + w·x.
func (r *ridge) Predict(x []float64) float64 {
	if !r.fitted {
		return 0
	}
	return r.intercept + floats.Dot(r.weights, x)
}

// Importances attributes importance as each weight's share of the total
// absolute weight. A fit with all-zero weights (constant target) has no
// signal to attribute and spreads importance uniformly.
func (r *ridge) Importances() []float64 {
	if !r.fitted {
		return nil
	}
	total := 0.0
	for _, w := range r.weights {
		total += math.Abs(w)
	}
	out := make([]float64, len(r.weights))
	if total == 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i, w := range r.weights {
		out[i] = math.Abs(w) / total
	}
	return out
}

// ridgeParams is the persisted form of a fitted ridge model.
type ridgeParams struct {
	Lambda    float64   `json:"lambda"`
	Intercept float64   `json:"intercept"`
	Weights   []float64 `json:"weights"`
}

// MarshalParams serializes the fitted coefficients.
func (r *ridge) MarshalParams() ([]byte, error) {
	if !r.fitted {
		return nil, ErrNotFitted
	}
	return json.Marshal(ridgeParams{
		Lambda:    r.lambda,
		Intercept: r.intercept,
		Weights:   r.weights,
	})
}

// UnmarshalParams restores fitted coefficients.
func (r *ridge) UnmarshalParams(data []byte) error {
	var p ridgeParams
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("ridge params: %w", err)
	}
	if len(p.Weights) == 0 {
		return fmt.Errorf("ridge params: no weights")
	}
	r.lambda = p.Lambda
	r.intercept = p.Intercept
	r.weights = p.Weights
	r.fitted = true
	return nil
}
