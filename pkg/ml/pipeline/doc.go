// Package pipeline chains data transforms and resamplers with a final
// estimator behind a single fit/predict surface.
//
// Key constructs:
// - Step/New: named steps, validated at construction
// - Make/NameSteps: step names auto-generated from estimator types
// - Fit/FitTransform/FitSample: thread (X, y) through every step in order
// - Predict/PredictProba/PredictLogProba/DecisionFunction/Score/Transform:
//   run the fitted transforms, then delegate to the final estimator
// - InverseTransform: walk the steps in reverse
// - WithTransformCache: memoize the fitted transform chain for repeated
//   inference on identical input
//
// Resampling steps consume themselves during fit: they rebalance training
// data only, so inference passes skip them.
package pipeline
