// Package ml defines the capability model shared by pipeline steps: small
// interfaces for fitting, transforming, resampling, predicting and scoring
// over gonum matrices, plus per-step fit-parameter structures.
//
// Key constructs:
// - Fitter/Transformer/Sampler and the combined FitTransformer/FitSampler
// - Predictor, ProbaPredictor, LogProbaPredictor, DecisionScorer, Scorer,
//   InverseTransformer: terminal estimator capabilities
// - Params/Grouped: per-step fit parameters; SplitParams parses the flat
//   "step__param" key convention into groups
// - FitLike/TransformLike/SampleLike: capability probes used by pipeline
//   construction
//
// Estimators implement whatever subset of the capabilities they support;
// the pipeline package checks the required combinations at construction
// and surfaces ErrNotSupported for absent terminal capabilities at call
// time.
package ml
