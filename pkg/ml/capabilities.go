package ml

import "gonum.org/v1/gonum/mat"

// Fitter learns state from training data. A nil Params is valid and means
// no per-step parameters were supplied.
type Fitter interface {
	Fit(X mat.Matrix, y []float64, params Params) error
}

// Transformer maps a feature matrix to a new feature matrix using state
// learned during fit. Row count is preserved.
type Transformer interface {
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// FitTransformer fits and transforms in a single call. Pipelines prefer it
// over a separate Fit followed by Transform when a step offers both.
type FitTransformer interface {
	FitTransform(X mat.Matrix, y []float64, params Params) (mat.Matrix, error)
}

// Sampler resamples a dataset, returning new features and labels. Unlike a
// Transformer it may change the number of rows.
type Sampler interface {
	Sample(X mat.Matrix, y []float64) (mat.Matrix, []float64, error)
}

// FitSampler fits and resamples in a single call.
type FitSampler interface {
	FitSample(X mat.Matrix, y []float64, params Params) (mat.Matrix, []float64, error)
}

// Predictor predicts one label per input row.
type Predictor interface {
	Predict(X mat.Matrix) ([]float64, error)
}

// FitPredictor fits on the input and predicts labels for it in one call,
// the natural surface for clusterers.
type FitPredictor interface {
	FitPredict(X mat.Matrix, y []float64, params Params) ([]float64, error)
}

// ProbaPredictor returns per-row class membership probabilities, one
// column per class.
type ProbaPredictor interface {
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// LogProbaPredictor returns the log of class membership probabilities.
type LogProbaPredictor interface {
	PredictLogProba(X mat.Matrix) (mat.Matrix, error)
}

// DecisionScorer returns per-row confidence scores, one column per class.
type DecisionScorer interface {
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)
}

// Scorer evaluates fitted state against labelled data.
type Scorer interface {
	Score(X mat.Matrix, y []float64) (float64, error)
}

// InverseTransformer reverses a Transform.
type InverseTransformer interface {
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// FitLike reports whether e can learn from training data in any form.
func FitLike(e any) bool {
	switch e.(type) {
	case Fitter, FitTransformer, FitSampler:
		return true
	}
	return false
}

// TransformLike reports whether e can transform already-fitted data, which
// inference passes require of every non-sampling intermediate step.
func TransformLike(e any) bool {
	_, ok := e.(Transformer)
	return ok
}

// SampleLike reports whether e can resample already-fitted data.
func SampleLike(e any) bool {
	_, ok := e.(Sampler)
	return ok
}
