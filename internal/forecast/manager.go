package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ecotrack/ecotrack/internal/features"
	"github.com/ecotrack/ecotrack/internal/logging"
	"github.com/ecotrack/ecotrack/internal/modelstore"
)

// Config holds the training and selection knobs. All values are read once
// at Manager construction; changing them requires a new Manager.
type Config struct {
	// MinSamples is the smallest dataset Train accepts.
	MinSamples int

	// ValidationSplit is the fraction of samples held out for final
	// evaluation and residual estimation.
	ValidationSplit float64

	// CVFolds is the number of cross-validation folds used for model
	// comparison on the training partition.
	CVFolds int

	// AlgorithmPriority lists candidate algorithms in preference order.
	// Every listed algorithm is trained; the order breaks metric ties.
	AlgorithmPriority []string

	// Seed drives every random choice in splitting and fitting, making a
	// training run reproducible for a fixed dataset.
	Seed int64

	// IntervalConfidence is the nominal coverage of prediction intervals,
	// in (0, 1).
	IntervalConfidence float64
}

// DefaultConfig returns the standard training configuration.
func DefaultConfig() Config {
	return Config{
		MinSamples:      50,
		ValidationSplit: 0.2,
		CVFolds:         5,
		AlgorithmPriority: []string{
			AlgorithmGradientBoosting,
			AlgorithmRandomForest,
			AlgorithmRidge,
		},
		Seed:               42,
		IntervalConfidence: 0.95,
	}
}

func (c Config) validate() error {
	if c.MinSamples < 2 {
		return fmt.Errorf("forecast: min samples must be at least 2, got %d", c.MinSamples)
	}
	if c.ValidationSplit <= 0 || c.ValidationSplit > 0.5 {
		return fmt.Errorf("forecast: validation split must be in (0, 0.5], got %g", c.ValidationSplit)
	}
	if c.CVFolds < 2 {
		return fmt.Errorf("forecast: cross-validation needs at least 2 folds, got %d", c.CVFolds)
	}
	if len(c.AlgorithmPriority) == 0 {
		return fmt.Errorf("forecast: algorithm priority list is empty")
	}
	for _, name := range c.AlgorithmPriority {
		if !Registered(name) {
			return fmt.Errorf("%w: %q in priority list", ErrUnknownAlgorithm, name)
		}
	}
	if c.IntervalConfidence <= 0 || c.IntervalConfidence >= 1 {
		return fmt.Errorf("forecast: interval confidence must be in (0, 1), got %g", c.IntervalConfidence)
	}
	return nil
}

// TrainingSample pairs a feature vector with the observed annual footprint
// in kg CO2 it should predict.
type TrainingSample struct {
	Features []float64 `json:"features"`
	Target   float64   `json:"target"`
}

// CandidateReport records how one algorithm performed during a training
// run. CrossValidation metrics are fold means on the training partition;
// Holdout metrics come from the final fit evaluated on held-out samples.
type CandidateReport struct {
	Algorithm       string  `json:"algorithm"`
	CrossValidation Metrics `json:"cross_validation"`
	Holdout         Metrics `json:"holdout"`
	Selected        bool    `json:"selected"`
}

// Report summarizes a completed training run.
type Report struct {
	ModelID         string            `json:"model_id"`
	Algorithm       string            `json:"algorithm"`
	SampleCount     int               `json:"sample_count"`
	TrainingCount   int               `json:"training_count"`
	ValidationCount int               `json:"validation_count"`
	ResidualStd     float64           `json:"residual_std"`
	Candidates      []CandidateReport `json:"candidates"`
	TrainedAt       time.Time         `json:"trained_at"`
}

// Prediction is a point estimate with its confidence interval. The
// interval is point +/- z * residual_std using the residual spread
// observed on the validation partition at training time. It is an
// approximation: residuals are assumed roughly normal and homoscedastic,
// which logged lifestyle data only loosely satisfies.
type Prediction struct {
	Point      float64 `json:"point"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Confidence float64 `json:"confidence"`
}

// activeModel bundles everything inference needs, swapped atomically
// after a successful training run.
type activeModel struct {
	model    Model
	scaler   *Scaler
	artifact *modelstore.Artifact
	margin   float64
}

// Manager trains candidate algorithms, selects the best, persists it, and
// serves predictions from the selected model. Training is blocking and
// exclusive with the active-model swap; inference takes a read lock only,
// so concurrent predictions never contend with each other.
type Manager struct {
	cfg   Config
	store *modelstore.Store

	mu     sync.RWMutex
	active *activeModel
}

// NewManager creates a Manager with a validated configuration.
func NewManager(cfg Config, store *modelstore.Store) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("forecast: nil model store")
	}
	return &Manager{cfg: cfg, store: store}, nil
}

// trainingSet is the materialized, scaled data a candidate trains on.
type trainingSet struct {
	trainX [][]float64
	trainY []float64
	folds  [][]int
	valX   [][]float64
	valY   []float64
}

type candidateResult struct {
	model   Model
	cv      Metrics
	holdout Metrics
}

// Train fits every configured candidate on the dataset, compares them by
// cross-validated RMSE, evaluates the winner on the holdout partition, and
// commits it as the active model. Candidates are compared on identical,
// precomputed folds, and ties go to the earlier position in
// AlgorithmPriority, so a fixed dataset, seed, and priority order always
// select the same model.
//
// On any failure the previously active model, if one exists, remains in
// service untouched.
func (m *Manager) Train(ctx context.Context, samples []TrainingSample) (*Report, error) {
	log := logging.FromContext(ctx)

	n := len(samples)
	if n < m.cfg.MinSamples {
		return nil, fmt.Errorf("%w: need at least %d samples, got %d", ErrInsufficientData, m.cfg.MinSamples, n)
	}
	if err := validateSamples(samples); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(uint64(m.cfg.Seed), uint64(m.cfg.Seed)^0xda942042e4dd58b5)) //nolint:gosec // G404: reproducible splits, not cryptography
	trainIdx, valIdx := holdoutSplit(n, m.cfg.ValidationSplit, rng)
	if len(trainIdx) < m.cfg.CVFolds {
		return nil, fmt.Errorf("%w: training partition of %d cannot fill %d folds",
			ErrInsufficientData, len(trainIdx), m.cfg.CVFolds)
	}

	set, scaler, err := m.buildTrainingSet(samples, trainIdx, valIdx, rng)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("component", "forecast").
		Str("operation", "train").
		Int("samples", n).
		Int("training", len(trainIdx)).
		Int("validation", len(valIdx)).
		Strs("candidates", m.cfg.AlgorithmPriority).
		Msg("training candidate models")

	results := make([]*candidateResult, len(m.cfg.AlgorithmPriority))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range m.cfg.AlgorithmPriority {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, candErr := m.trainCandidate(name, set)
			if candErr != nil {
				return fmt.Errorf("training %s: %w", name, candErr)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Lower cross-validated RMSE wins; an exact tie keeps the earlier
	// priority position. Strict less-than gives both in one comparison.
	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].cv.RMSE < results[best].cv.RMSE {
			best = i
		}
	}
	selected := results[best]

	for i, res := range results {
		log.Debug().
			Str("component", "forecast").
			Str("algorithm", m.cfg.AlgorithmPriority[i]).
			Float64("cv_rmse", res.cv.RMSE).
			Float64("holdout_rmse", res.holdout.RMSE).
			Bool("selected", i == best).
			Msg("candidate evaluated")
	}

	residual := residualStd(selected.model, set.valX, set.valY)

	params, err := selected.model.MarshalParams()
	if err != nil {
		return nil, fmt.Errorf("serializing %s parameters: %w", selected.model.Name(), err)
	}
	scalerJSON, err := json.Marshal(scaler)
	if err != nil {
		return nil, fmt.Errorf("serializing scaler: %w", err)
	}

	artifact := &modelstore.Artifact{
		FormatVersion:        modelstore.ArtifactFormatVersion,
		ModelID:              modelstore.NewModelID(),
		Algorithm:            selected.model.Name(),
		FeatureSchemaVersion: features.SchemaVersion,
		FeatureNames:         features.Names(),
		SampleCount:          n,
		Metrics:              metricsMap(selected.cv, selected.holdout),
		ResidualStd:          residual,
		IntervalConfidence:   m.cfg.IntervalConfidence,
		TrainedAt:            time.Now().UTC(),
		Params:               params,
		Scaler:               scalerJSON,
	}

	if err := m.store.Save(artifact); err != nil {
		return nil, fmt.Errorf("persisting model artifact: %w", err)
	}

	m.mu.Lock()
	m.active = &activeModel{
		model:    selected.model,
		scaler:   scaler,
		artifact: artifact,
		margin:   intervalZ(m.cfg.IntervalConfidence) * residual,
	}
	m.mu.Unlock()

	report := &Report{
		ModelID:         artifact.ModelID,
		Algorithm:       artifact.Algorithm,
		SampleCount:     n,
		TrainingCount:   len(trainIdx),
		ValidationCount: len(valIdx),
		ResidualStd:     residual,
		Candidates:      make([]CandidateReport, len(results)),
		TrainedAt:       artifact.TrainedAt,
	}
	for i, res := range results {
		report.Candidates[i] = CandidateReport{
			Algorithm:       m.cfg.AlgorithmPriority[i],
			CrossValidation: res.cv,
			Holdout:         res.holdout,
			Selected:        i == best,
		}
	}

	log.Info().
		Str("component", "forecast").
		Str("operation", "train").
		Str("model_id", artifact.ModelID).
		Str("algorithm", artifact.Algorithm).
		Float64("holdout_rmse", selected.holdout.RMSE).
		Float64("residual_std", residual).
		Msg("model training complete")

	return report, nil
}

// buildTrainingSet materializes scaled train and validation matrices plus
// the shared cross-validation folds. The scaler is fitted on the training
// partition only so holdout evaluation never leaks into its parameters.
func (m *Manager) buildTrainingSet(samples []TrainingSample, trainIdx, valIdx []int, rng *rand.Rand) (*trainingSet, *Scaler, error) {
	rawTrainX, trainY := matrixAt(samples, trainIdx)
	rawValX, valY := matrixAt(samples, valIdx)

	scaler, err := FitScaler(rawTrainX)
	if err != nil {
		return nil, nil, err
	}
	trainX, err := scaler.TransformMatrix(rawTrainX)
	if err != nil {
		return nil, nil, err
	}
	valX, err := scaler.TransformMatrix(rawValX)
	if err != nil {
		return nil, nil, err
	}

	all := make([]int, len(trainX))
	for i := range all {
		all[i] = i
	}

	return &trainingSet{
		trainX: trainX,
		trainY: trainY,
		folds:  kfold(all, m.cfg.CVFolds, rng),
		valX:   valX,
		valY:   valY,
	}, scaler, nil
}

// trainCandidate cross-validates one algorithm on the shared folds, then
// fits it on the full training partition and scores the holdout set.
func (m *Manager) trainCandidate(name string, set *trainingSet) (*candidateResult, error) {
	var sumRMSE, sumMAE, sumR2 float64
	for f, holdIdx := range set.folds {
		fitIdx := foldComplement(set.folds, f)

		model, err := New(name, m.cfg.Seed)
		if err != nil {
			return nil, err
		}
		if err := model.Fit(rowsAt(set.trainX, fitIdx), valsAt(set.trainY, fitIdx)); err != nil {
			return nil, fmt.Errorf("fold %d: %w", f, err)
		}

		fm := Evaluate(model, rowsAt(set.trainX, holdIdx), valsAt(set.trainY, holdIdx))
		sumRMSE += fm.RMSE
		sumMAE += fm.MAE
		sumR2 += fm.R2
	}
	k := float64(len(set.folds))
	cv := Metrics{RMSE: sumRMSE / k, MAE: sumMAE / k, R2: sumR2 / k}

	final, err := New(name, m.cfg.Seed)
	if err != nil {
		return nil, err
	}
	if err := final.Fit(set.trainX, set.trainY); err != nil {
		return nil, err
	}

	return &candidateResult{
		model:   final,
		cv:      cv,
		holdout: Evaluate(final, set.valX, set.valY),
	}, nil
}

// Predict scales the raw feature vector with the persisted scaler and
// returns the active model's estimate with its interval. Estimates are
// floored at zero; an annual footprint cannot be negative.
func (m *Manager) Predict(ctx context.Context, vector []float64) (*Prediction, error) {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()

	if active == nil {
		return nil, ErrModelNotTrained
	}

	expected := active.scaler.Width()
	if len(vector) != expected {
		return nil, fmt.Errorf("%w: expected %d features (schema v%d), got %d",
			ErrFeatureSchema, expected, active.artifact.FeatureSchemaVersion, len(vector))
	}

	scaled, err := active.scaler.Transform(vector)
	if err != nil {
		return nil, err
	}

	point := active.model.Predict(scaled)
	if point < 0 {
		point = 0
	}
	lower := point - active.margin
	if lower < 0 {
		lower = 0
	}

	logging.FromContext(ctx).Debug().
		Str("component", "forecast").
		Str("operation", "predict").
		Str("algorithm", active.artifact.Algorithm).
		Float64("point", point).
		Msg("prediction served")

	return &Prediction{
		Point:      point,
		Lower:      lower,
		Upper:      point + active.margin,
		Confidence: active.artifact.IntervalConfidence,
	}, nil
}

// Importances maps feature names to the active model's importance weights.
// A nil map with a nil error means the algorithm does not attribute
// importances; that is a valid response, not a failure.
func (m *Manager) Importances() (map[string]float64, error) {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()

	if active == nil {
		return nil, ErrModelNotTrained
	}

	weights := active.model.Importances()
	if weights == nil {
		return nil, nil
	}

	out := make(map[string]float64, len(weights))
	for i, name := range active.artifact.FeatureNames {
		out[name] = weights[i]
	}
	return out, nil
}

// Active returns the metadata of the model currently serving predictions.
func (m *Manager) Active() (*modelstore.Artifact, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return nil, false
	}
	return m.active.artifact, true
}

// LoadActive restores the persisted model into the Manager. Store errors
// pass through unchanged so callers can distinguish a missing artifact
// from a corrupted or incompatible one.
func (m *Manager) LoadActive(ctx context.Context) error {
	artifact, err := m.store.Load(features.SchemaVersion)
	if err != nil {
		return err
	}

	model, err := New(artifact.Algorithm, m.cfg.Seed)
	if err != nil {
		return err
	}
	if err := model.UnmarshalParams(artifact.Params); err != nil {
		return fmt.Errorf("restoring %s parameters: %w", artifact.Algorithm, err)
	}

	var scaler Scaler
	if err := json.Unmarshal(artifact.Scaler, &scaler); err != nil {
		return fmt.Errorf("%w: unreadable scaler: %w", modelstore.ErrArtifactCorrupted, err)
	}
	if scaler.Width() != len(artifact.FeatureNames) {
		return fmt.Errorf("%w: scaler has %d columns for %d features",
			modelstore.ErrArtifactCorrupted, scaler.Width(), len(artifact.FeatureNames))
	}
	if artifact.IntervalConfidence <= 0 || artifact.IntervalConfidence >= 1 {
		return fmt.Errorf("%w: interval confidence %g outside (0, 1)",
			modelstore.ErrArtifactCorrupted, artifact.IntervalConfidence)
	}

	m.mu.Lock()
	m.active = &activeModel{
		model:    model,
		scaler:   &scaler,
		artifact: artifact,
		margin:   intervalZ(artifact.IntervalConfidence) * artifact.ResidualStd,
	}
	m.mu.Unlock()

	logging.FromContext(ctx).Info().
		Str("component", "forecast").
		Str("operation", "load_active").
		Str("model_id", artifact.ModelID).
		Str("algorithm", artifact.Algorithm).
		Time("trained_at", artifact.TrainedAt).
		Msg("restored trained model")

	return nil
}

// validateSamples rejects rows that do not match the current feature
// schema or carry non-finite values.
func validateSamples(samples []TrainingSample) error {
	for i, s := range samples {
		if len(s.Features) != features.Count {
			return fmt.Errorf("%w: sample %d has %d features, expected %d",
				ErrFeatureSchema, i, len(s.Features), features.Count)
		}
		for j, v := range s.Features {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: sample %d feature %d is not finite", ErrTrainingData, i, j)
			}
		}
		if math.IsNaN(s.Target) || math.IsInf(s.Target, 0) {
			return fmt.Errorf("%w: sample %d target is not finite", ErrTrainingData, i)
		}
	}
	return nil
}

// intervalZ is the standard normal quantile for a central interval of the
// given confidence: 1.96 for 0.95, 1.64 for 0.90.
func intervalZ(confidence float64) float64 {
	return distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + confidence/2)
}

// metricsMap flattens candidate metrics for artifact storage. Undefined
// values (R squared on zero-variance targets) are omitted because JSON
// has no encoding for them.
func metricsMap(cv, holdout Metrics) map[string]float64 {
	out := make(map[string]float64, 6)
	put := func(key string, v float64) {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[key] = v
		}
	}
	put("cv_rmse", cv.RMSE)
	put("cv_mae", cv.MAE)
	put("cv_r2", cv.R2)
	put("holdout_rmse", holdout.RMSE)
	put("holdout_mae", holdout.MAE)
	put("holdout_r2", holdout.R2)
	return out
}

// matrixAt extracts the rows of samples selected by idx.
func matrixAt(samples []TrainingSample, idx []int) ([][]float64, []float64) {
	x := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for i, s := range idx {
		x[i] = samples[s].Features
		y[i] = samples[s].Target
	}
	return x, y
}

// rowsAt selects rows of x by index.
func rowsAt(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, s := range idx {
		out[i] = x[s]
	}
	return out
}

// valsAt selects elements of y by index.
func valsAt(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, s := range idx {
		out[i] = y[s]
	}
	return out
}

// foldComplement concatenates every fold except skip, preserving fold
// order so repeated runs assemble identical training subsets.
func foldComplement(folds [][]int, skip int) []int {
	var out []int
	for f, fold := range folds {
		if f == skip {
			continue
		}
		out = append(out, fold...)
	}
	return out
}
