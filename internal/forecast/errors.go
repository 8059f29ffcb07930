package forecast

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors comparable with errors.Is().
var (
	// ErrInsufficientData indicates too few samples to train. The wrapping
	// error carries required vs actual counts.
	ErrInsufficientData = constError("insufficient training data")

	// ErrModelNotTrained indicates inference was requested before any
	// model was trained or loaded.
	ErrModelNotTrained = constError("no trained model available")

	// ErrFeatureSchema indicates a feature vector whose shape does not
	// match the active model's expectation. The wrapping error carries
	// expected vs actual lengths.
	ErrFeatureSchema = constError("feature vector does not match model schema")

	// ErrUnknownAlgorithm indicates a name with no registered factory.
	ErrUnknownAlgorithm = constError("unknown forecast algorithm")

	// ErrTrainingData indicates a malformed training matrix: empty, ragged,
	// or mismatched with its target column.
	ErrTrainingData = constError("malformed training data")

	// ErrNotFitted indicates Predict or Importances was called on a model
	// that has not been fitted.
	ErrNotFitted = constError("model not fitted")
)
