package preprocess

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ib-77/mlpipe/pkg/ml"
)

func sample() *mat.Dense {
	return mat.NewDense(5, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
		5, 50,
	})
}

func column(X mat.Matrix, j int) []float64 {
	r, _ := X.Dims()
	col := make([]float64, r)
	mat.Col(col, j, X)
	return col
}

func TestStandardScalerMoments(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	X := sample()
	Xt, err := s.FitTransform(X, nil, nil)
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		col := column(Xt, j)
		assert.InDelta(t, 0, stat.Mean(col, nil), 1e-12)
		assert.InDelta(t, 1, stat.StdDev(col, nil), 1e-12)
	}
}

func TestStandardScalerInverseRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	X := sample()
	Xt, err := s.FitTransform(X, nil, nil)
	require.NoError(t, err)

	back, err := s.InverseTransform(Xt)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-9))
}

func TestStandardScalerParams(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	X := sample()
	Xt, err := s.FitTransform(X, nil, ml.Params{"with_mean": false})
	require.NoError(t, err)

	// column mean survives when centring is disabled
	col := column(Xt, 0)
	assert.Greater(t, stat.Mean(col, nil), 0.0)
}

func TestStandardScalerNotFitted(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	_, err := s.Transform(sample())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ml.ErrNotFitted))

	_, err = s.InverseTransform(sample())
	assert.True(t, errors.Is(err, ml.ErrNotFitted))
}

func TestStandardScalerColumnMismatch(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	require.NoError(t, s.Fit(sample(), nil, nil))

	_, err := s.Transform(mat.NewDense(2, 3, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ml.ErrDimensionMismatch))
}

func TestStandardScalerConstantColumn(t *testing.T) {
	t.Parallel()

	s := NewStandardScaler()
	X := mat.NewDense(3, 1, []float64{7, 7, 7})
	Xt, err := s.FitTransform(X, nil, nil)
	require.NoError(t, err)

	// zero spread leaves the column centred, not NaN
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, Xt.At(i, 0))
	}
}

func TestMinMaxScalerRange(t *testing.T) {
	t.Parallel()

	s := NewMinMaxScaler()
	X := sample()
	Xt, err := s.FitTransform(X, nil, nil)
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		col := column(Xt, j)
		assert.Equal(t, 0.0, col[0])
		assert.Equal(t, 1.0, col[len(col)-1])
	}
}

func TestMinMaxScalerCustomRange(t *testing.T) {
	t.Parallel()

	s := &MinMaxScaler{Min: -1, Max: 1}
	X := sample()
	Xt, err := s.FitTransform(X, nil, nil)
	require.NoError(t, err)

	col := column(Xt, 0)
	assert.Equal(t, -1.0, col[0])
	assert.Equal(t, 1.0, col[len(col)-1])

	back, err := s.InverseTransform(Xt)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-9))
}

func TestMinMaxScalerNotFitted(t *testing.T) {
	t.Parallel()

	s := NewMinMaxScaler()
	_, err := s.Transform(sample())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ml.ErrNotFitted))
}
