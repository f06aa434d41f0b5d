package pipeline

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/ib-77/mlpipe/pkg/ml"
)

// Step pairs a name, unique within a pipeline, with an estimator
// implementing some subset of the ml capability interfaces.
type Step struct {
	Name      string
	Estimator any
}

// Pipeline applies a sequence of transforms and resamplers and delegates
// the terminal operation to the final step. The step list is copied at
// construction and never changes; the step estimators themselves hold the
// mutable fitted state.
type Pipeline struct {
	id     uuid.UUID
	steps  []Step
	logger zerolog.Logger
	cache  *transformCache
}

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithLogger routes step timing logs to l.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithVerbose logs step timing to stderr.
func WithVerbose() Option {
	return func(p *Pipeline) {
		p.logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// WithTransformCache memoizes the fitted transform chain for up to size
// distinct inputs. The cache is purged whenever the pipeline is refitted.
func WithTransformCache(size int) Option {
	return func(p *Pipeline) { p.cache = newTransformCache(size) }
}

// New validates and copies the step list. Every non-final step must be
// fit-like and transform-or-sample-like; the final step must be fit-like.
func New(steps []Step, opts ...Option) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, errors.Wrap(ml.ErrInvalidFinalStep, "empty step list")
	}
	seen := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		if s.Name == "" {
			return nil, errors.Wrapf(ml.ErrEmptyStepName, "step %T", s.Estimator)
		}
		if _, ok := seen[s.Name]; ok {
			return nil, errors.Wrapf(ml.ErrDuplicateStepName, "%q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	for _, s := range steps[:len(steps)-1] {
		if !ml.FitLike(s.Estimator) || !(ml.TransformLike(s.Estimator) || ml.SampleLike(s.Estimator)) {
			return nil, errors.Wrapf(ml.ErrInvalidStep, "step %q (%T)", s.Name, s.Estimator)
		}
	}
	if last := steps[len(steps)-1]; !ml.FitLike(last.Estimator) {
		return nil, errors.Wrapf(ml.ErrInvalidFinalStep, "step %q (%T)", last.Name, last.Estimator)
	}

	p := &Pipeline{
		id:     uuid.New(),
		steps:  append([]Step(nil), steps...),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("pipeline", p.id.String()).Logger()
	return p, nil
}

// Make builds a pipeline with names generated from the estimator types.
func Make(estimators ...any) (*Pipeline, error) {
	return New(NameSteps(estimators...))
}

// ID returns the pipeline's identity used in log context.
func (p *Pipeline) ID() uuid.UUID {
	return p.id
}

// Steps returns a copy of the step list.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// NamedSteps returns the estimators keyed by step name.
func (p *Pipeline) NamedSteps() map[string]any {
	out := make(map[string]any, len(p.steps))
	for _, s := range p.steps {
		out[s.Name] = s.Estimator
	}
	return out
}

func (p *Pipeline) finalStep() Step {
	return p.steps[len(p.steps)-1]
}

func (p *Pipeline) hasStep(name string) bool {
	for _, s := range p.steps {
		if s.Name == name {
			return true
		}
	}
	return false
}

// samplerStep reports whether a step resamples during fit rather than
// transforming, following the same capability preference order as
// preTransform. Such steps are skipped during inference.
func samplerStep(e any) bool {
	if _, ok := e.(ml.FitTransformer); ok {
		return false
	}
	if _, ok := e.(ml.FitSampler); ok {
		return true
	}
	if _, ok := e.(ml.Transformer); ok {
		return false
	}
	_, ok := e.(ml.Sampler)
	return ok
}

// preTransform fits every non-final step in order, threading the working
// (X, y) pair through each, and returns the transformed pair along with
// the final step's parameters.
func (p *Pipeline) preTransform(X mat.Matrix, y []float64, params ml.Grouped) (mat.Matrix, []float64, ml.Params, error) {
	for name := range params {
		if !p.hasStep(name) {
			return nil, nil, nil, errors.Wrapf(ml.ErrUnknownStep, "%q", name)
		}
	}
	Xt, yt := X, y
	for _, s := range p.steps[:len(p.steps)-1] {
		sp := params[s.Name]
		start := time.Now()
		var err error
		switch est := s.Estimator.(type) {
		case ml.FitTransformer:
			Xt, err = est.FitTransform(Xt, yt, sp)
		case ml.FitSampler:
			Xt, yt, err = est.FitSample(Xt, yt, sp)
		default:
			// validation guarantees a Fitter plus Transformer or Sampler
			if err = s.Estimator.(ml.Fitter).Fit(Xt, yt, sp); err == nil {
				if tr, ok := s.Estimator.(ml.Transformer); ok {
					Xt, err = tr.Transform(Xt)
				} else {
					Xt, yt, err = s.Estimator.(ml.Sampler).Sample(Xt, yt)
				}
			}
		}
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "step %q", s.Name)
		}
		p.logger.Debug().Str("step", s.Name).Dur("elapsed", time.Since(start)).Msg("fitted")
	}
	return Xt, yt, params[p.finalStep().Name], nil
}

// applyTransforms runs fitted, non-sampling steps over X in order,
// optionally including the final step.
func (p *Pipeline) applyTransforms(X mat.Matrix, includeFinal bool) (mat.Matrix, error) {
	if Xt, ok := p.cache.get(X, includeFinal); ok {
		p.logger.Debug().Bool("final", includeFinal).Msg("transform cache hit")
		return Xt, nil
	}
	steps := p.steps
	if !includeFinal {
		steps = steps[:len(steps)-1]
	}
	Xt := X
	for _, s := range steps {
		if samplerStep(s.Estimator) {
			continue
		}
		tr, ok := s.Estimator.(ml.Transformer)
		if !ok {
			return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot transform", s.Name, s.Estimator)
		}
		var err error
		if Xt, err = tr.Transform(Xt); err != nil {
			return nil, errors.Wrapf(err, "step %q", s.Name)
		}
	}
	p.cache.put(X, includeFinal, Xt)
	return Xt, nil
}

// Fit fits every step in order, each receiving the output of the previous
// one, and finally fits the last step on the fully transformed data.
func (p *Pipeline) Fit(X mat.Matrix, y []float64, params ml.Grouped) error {
	p.cache.purge()
	Xt, yt, fp, err := p.preTransform(X, y, params)
	if err != nil {
		return err
	}
	last := p.finalStep()
	start := time.Now()
	switch est := last.Estimator.(type) {
	case ml.Fitter:
		err = est.Fit(Xt, yt, fp)
	case ml.FitTransformer:
		_, err = est.FitTransform(Xt, yt, fp)
	case ml.FitSampler:
		_, _, err = est.FitSample(Xt, yt, fp)
	}
	if err != nil {
		return errors.Wrapf(err, "step %q", last.Name)
	}
	p.logger.Debug().Str("step", last.Name).Dur("elapsed", time.Since(start)).Msg("fitted")
	return nil
}

// FitTransform fits every step and returns the data transformed by the
// whole chain, final step included.
func (p *Pipeline) FitTransform(X mat.Matrix, y []float64, params ml.Grouped) (mat.Matrix, error) {
	p.cache.purge()
	Xt, yt, fp, err := p.preTransform(X, y, params)
	if err != nil {
		return nil, err
	}
	last := p.finalStep()
	if est, ok := last.Estimator.(ml.FitTransformer); ok {
		Xt, err = est.FitTransform(Xt, yt, fp)
	} else if f, ok := last.Estimator.(ml.Fitter); ok {
		tr, ok := last.Estimator.(ml.Transformer)
		if !ok {
			return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot fit-transform", last.Name, last.Estimator)
		}
		if err = f.Fit(Xt, yt, fp); err == nil {
			Xt, err = tr.Transform(Xt)
		}
	} else {
		return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot fit-transform", last.Name, last.Estimator)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "step %q", last.Name)
	}
	return Xt, nil
}

// FitSample fits every step and returns the resampled (X, y) produced by
// the final step.
func (p *Pipeline) FitSample(X mat.Matrix, y []float64, params ml.Grouped) (mat.Matrix, []float64, error) {
	p.cache.purge()
	est, ok := p.finalStep().Estimator.(ml.FitSampler)
	if !ok {
		return nil, nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot fit-sample", p.finalStep().Name, p.finalStep().Estimator)
	}
	Xt, yt, fp, err := p.preTransform(X, y, params)
	if err != nil {
		return nil, nil, err
	}
	Xs, ys, err := est.FitSample(Xt, yt, fp)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "step %q", p.finalStep().Name)
	}
	return Xs, ys, nil
}

// Sample transforms X through the fitted steps and resamples with the
// final step.
func (p *Pipeline) Sample(X mat.Matrix, y []float64) (mat.Matrix, []float64, error) {
	est, ok := p.finalStep().Estimator.(ml.Sampler)
	if !ok {
		return nil, nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot sample", p.finalStep().Name, p.finalStep().Estimator)
	}
	Xt, err := p.applyTransforms(X, false)
	if err != nil {
		return nil, nil, err
	}
	Xs, ys, err := est.Sample(Xt, y)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "step %q", p.finalStep().Name)
	}
	return Xs, ys, nil
}

// Predict transforms X through the fitted steps and predicts with the
// final step.
func (p *Pipeline) Predict(X mat.Matrix) ([]float64, error) {
	est, ok := p.finalStep().Estimator.(ml.Predictor)
	if !ok {
		return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot predict", p.finalStep().Name, p.finalStep().Estimator)
	}
	Xt, err := p.applyTransforms(X, false)
	if err != nil {
		return nil, err
	}
	out, err := est.Predict(Xt)
	if err != nil {
		return nil, errors.Wrapf(err, "step %q", p.finalStep().Name)
	}
	return out, nil
}

// FitPredict fits every step and returns the final step's predictions for
// the training data itself.
func (p *Pipeline) FitPredict(X mat.Matrix, y []float64, params ml.Grouped) ([]float64, error) {
	p.cache.purge()
	est, ok := p.finalStep().Estimator.(ml.FitPredictor)
	if !ok {
		return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot fit-predict", p.finalStep().Name, p.finalStep().Estimator)
	}
	Xt, yt, fp, err := p.preTransform(X, y, params)
	if err != nil {
		return nil, err
	}
	out, err := est.FitPredict(Xt, yt, fp)
	if err != nil {
		return nil, errors.Wrapf(err, "step %q", p.finalStep().Name)
	}
	return out, nil
}

// PredictProba transforms X through the fitted steps and returns class
// probabilities from the final step.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	est, ok := p.finalStep().Estimator.(ml.ProbaPredictor)
	if !ok {
		return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot predict probabilities", p.finalStep().Name, p.finalStep().Estimator)
	}
	Xt, err := p.applyTransforms(X, false)
	if err != nil {
		return nil, err
	}
	out, err := est.PredictProba(Xt)
	if err != nil {
		return nil, errors.Wrapf(err, "step %q", p.finalStep().Name)
	}
	return out, nil
}

// PredictLogProba transforms X through the fitted steps and returns log
// class probabilities from the final step.
func (p *Pipeline) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	est, ok := p.finalStep().Estimator.(ml.LogProbaPredictor)
	if !ok {
		return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot predict log probabilities", p.finalStep().Name, p.finalStep().Estimator)
	}
	Xt, err := p.applyTransforms(X, false)
	if err != nil {
		return nil, err
	}
	out, err := est.PredictLogProba(Xt)
	if err != nil {
		return nil, errors.Wrapf(err, "step %q", p.finalStep().Name)
	}
	return out, nil
}

// DecisionFunction transforms X through the fitted steps and returns the
// final step's confidence scores.
func (p *Pipeline) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	est, ok := p.finalStep().Estimator.(ml.DecisionScorer)
	if !ok {
		return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) has no decision function", p.finalStep().Name, p.finalStep().Estimator)
	}
	Xt, err := p.applyTransforms(X, false)
	if err != nil {
		return nil, err
	}
	out, err := est.DecisionFunction(Xt)
	if err != nil {
		return nil, errors.Wrapf(err, "step %q", p.finalStep().Name)
	}
	return out, nil
}

// Transform runs X through the fitted transforms of every step, the final
// one included.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	last := p.finalStep()
	if !ml.TransformLike(last.Estimator) {
		return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot transform", last.Name, last.Estimator)
	}
	return p.applyTransforms(X, true)
}

// InverseTransform walks the steps in reverse, applying each step's
// inverse transform. Every non-sampling step must support it.
func (p *Pipeline) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	for _, s := range p.steps {
		if samplerStep(s.Estimator) {
			continue
		}
		if _, ok := s.Estimator.(ml.InverseTransformer); !ok {
			return nil, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot inverse transform", s.Name, s.Estimator)
		}
	}
	Xt := X
	for i := len(p.steps) - 1; i >= 0; i-- {
		s := p.steps[i]
		if samplerStep(s.Estimator) {
			continue
		}
		var err error
		if Xt, err = s.Estimator.(ml.InverseTransformer).InverseTransform(Xt); err != nil {
			return nil, errors.Wrapf(err, "step %q", s.Name)
		}
	}
	return Xt, nil
}

// Score transforms X through the fitted steps and scores the final step
// against y.
func (p *Pipeline) Score(X mat.Matrix, y []float64) (float64, error) {
	est, ok := p.finalStep().Estimator.(ml.Scorer)
	if !ok {
		return 0, errors.Wrapf(ml.ErrNotSupported, "step %q (%T) cannot score", p.finalStep().Name, p.finalStep().Estimator)
	}
	Xt, err := p.applyTransforms(X, false)
	if err != nil {
		return 0, err
	}
	score, err := est.Score(Xt, y)
	if err != nil {
		return 0, errors.Wrapf(err, "step %q", p.finalStep().Name)
	}
	return score, nil
}
