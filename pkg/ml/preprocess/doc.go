// Package preprocess provides column-wise feature scaling transformers
// suitable as intermediate pipeline steps.
//
// Key constructs:
// - StandardScaler: zero mean, unit variance per column
// - MinMaxScaler: rescale each column to a target range
//
// Both scalers are invertible: InverseTransform maps scaled data back to
// the original feature space.
package preprocess
