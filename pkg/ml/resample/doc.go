// Package resample provides random resamplers that rebalance class
// distributions during fit. Samplers change the number of rows, so
// pipelines apply them while fitting and skip them during inference.
//
// Key constructs:
// - RandomUnderSampler: drop majority-class rows down to a ratio of the
//   minority count
// - RandomOverSampler: duplicate minority-class rows up to a ratio of the
//   majority count
//
// Both samplers are seeded for reproducible draws and honor the "ratio"
// fit parameter.
package resample
