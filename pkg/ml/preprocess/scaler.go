package preprocess

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ib-77/mlpipe/pkg/ml"
)

// StandardScaler standardizes each column to zero mean and unit variance.
// Columns with zero spread are left centred only.
//
// Fit parameters: "with_mean" (bool), "with_std" (bool).
type StandardScaler struct {
	WithMean bool
	WithStd  bool

	mean []float64
	std  []float64
}

// NewStandardScaler returns a scaler that both centres and scales.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{WithMean: true, WithStd: true}
}

// Fit learns per-column mean and standard deviation. Labels are ignored.
func (s *StandardScaler) Fit(X mat.Matrix, _ []float64, params ml.Params) error {
	s.WithMean = params.Bool("with_mean", s.WithMean)
	s.WithStd = params.Bool("with_std", s.WithStd)

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(ml.ErrDimensionMismatch, "standard scaler: empty input")
	}
	s.mean = make([]float64, c)
	s.std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		s.mean[j] = stat.Mean(col, nil)
		sd := stat.StdDev(col, nil)
		if sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		s.std[j] = sd
	}
	return nil
}

// Transform standardizes X with the fitted moments.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if s.mean == nil {
		return nil, errors.Wrap(ml.ErrNotFitted, "standard scaler")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.Wrap(ml.ErrDimensionMismatch, "standard scaler: empty input")
	}
	if c != len(s.mean) {
		return nil, errors.Wrapf(ml.ErrDimensionMismatch, "standard scaler: want %d columns, got %d", len(s.mean), c)
	}
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.WithMean {
				v -= s.mean[j]
			}
			if s.WithStd {
				v /= s.std[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// FitTransform fits the scaler and transforms X in one call.
func (s *StandardScaler) FitTransform(X mat.Matrix, y []float64, params ml.Params) (mat.Matrix, error) {
	if err := s.Fit(X, y, params); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original space.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if s.mean == nil {
		return nil, errors.Wrap(ml.ErrNotFitted, "standard scaler")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.Wrap(ml.ErrDimensionMismatch, "standard scaler: empty input")
	}
	if c != len(s.mean) {
		return nil, errors.Wrapf(ml.ErrDimensionMismatch, "standard scaler: want %d columns, got %d", len(s.mean), c)
	}
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.WithStd {
				v *= s.std[j]
			}
			if s.WithMean {
				v += s.mean[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// MinMaxScaler rescales each column into [Min, Max], by default [0, 1].
// Columns with a single distinct value map to Min.
type MinMaxScaler struct {
	Min float64
	Max float64

	dataMin []float64
	dataMax []float64
}

// NewMinMaxScaler returns a scaler targeting the [0, 1] range.
func NewMinMaxScaler() *MinMaxScaler {
	return &MinMaxScaler{Min: 0, Max: 1}
}

// Fit learns per-column minima and maxima. Labels are ignored.
func (s *MinMaxScaler) Fit(X mat.Matrix, _ []float64, _ ml.Params) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(ml.ErrDimensionMismatch, "minmax scaler: empty input")
	}
	s.dataMin = make([]float64, c)
	s.dataMax = make([]float64, c)
	for j := 0; j < c; j++ {
		lo, hi := X.At(0, j), X.At(0, j)
		for i := 1; i < r; i++ {
			v := X.At(i, j)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		s.dataMin[j] = lo
		s.dataMax[j] = hi
	}
	return nil
}

// Transform rescales X into the target range with the fitted extrema.
func (s *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if s.dataMin == nil {
		return nil, errors.Wrap(ml.ErrNotFitted, "minmax scaler")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.Wrap(ml.ErrDimensionMismatch, "minmax scaler: empty input")
	}
	if c != len(s.dataMin) {
		return nil, errors.Wrapf(ml.ErrDimensionMismatch, "minmax scaler: want %d columns, got %d", len(s.dataMin), c)
	}
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			span := s.dataMax[j] - s.dataMin[j]
			v := s.Min
			if span != 0 {
				v = s.Min + (X.At(i, j)-s.dataMin[j])/span*(s.Max-s.Min)
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// FitTransform fits the scaler and transforms X in one call.
func (s *MinMaxScaler) FitTransform(X mat.Matrix, y []float64, params ml.Params) (mat.Matrix, error) {
	if err := s.Fit(X, y, params); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps range-scaled data back to the original space.
func (s *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if s.dataMin == nil {
		return nil, errors.Wrap(ml.ErrNotFitted, "minmax scaler")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.Wrap(ml.ErrDimensionMismatch, "minmax scaler: empty input")
	}
	if c != len(s.dataMin) {
		return nil, errors.Wrapf(ml.ErrDimensionMismatch, "minmax scaler: want %d columns, got %d", len(s.dataMin), c)
	}
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			span := s.dataMax[j] - s.dataMin[j]
			v := s.dataMin[j]
			if s.Max != s.Min {
				v = s.dataMin[j] + (X.At(i, j)-s.Min)/(s.Max-s.Min)*span
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}
