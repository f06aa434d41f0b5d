package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ib-77/mlpipe/pkg/ml"
)

func twoBlobs() (*mat.Dense, []float64) {
	X := mat.NewDense(6, 2, []float64{
		0.0, 0.1,
		0.2, -0.1,
		-0.1, 0.0,
		10.1, 9.9,
		9.8, 10.2,
		10.0, 10.0,
	})
	y := []float64{0, 0, 0, 1, 1, 1}
	return X, y
}

func TestNearestCentroidPredict(t *testing.T) {
	t.Parallel()

	X, y := twoBlobs()
	m := NewNearestCentroid()
	require.NoError(t, m.Fit(X, y, nil))

	assert.Equal(t, []float64{0, 1}, m.Classes())

	pred, err := m.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	score, err := m.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestNearestCentroidFitPredict(t *testing.T) {
	t.Parallel()

	X, y := twoBlobs()
	m := NewNearestCentroid()

	pred, err := m.FitPredict(X, y, nil)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestNearestCentroidProba(t *testing.T) {
	t.Parallel()

	X, y := twoBlobs()
	m := NewNearestCentroid()
	require.NoError(t, m.Fit(X, y, nil))

	proba, err := m.PredictProba(X)
	require.NoError(t, err)
	r, c := proba.Dims()
	require.Equal(t, 6, r)
	require.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		total := proba.At(i, 0) + proba.At(i, 1)
		assert.InDelta(t, 1.0, total, 1e-9)
		// the true class dominates
		assert.Greater(t, proba.At(i, int(y[i])), 0.5)
	}

	logProba, err := m.PredictLogProba(X)
	require.NoError(t, err)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.InDelta(t, math.Log(proba.At(i, j)), logProba.At(i, j), 1e-9)
		}
	}
}

func TestNearestCentroidDecisionFunction(t *testing.T) {
	t.Parallel()

	X, y := twoBlobs()
	m := NewNearestCentroid()
	require.NoError(t, m.Fit(X, y, nil))

	scores, err := m.DecisionFunction(X)
	require.NoError(t, err)
	r, c := scores.Dims()
	require.Equal(t, 6, r)
	require.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		// scores are negative distances: the true class scores higher
		assert.Greater(t, scores.At(i, int(y[i])), scores.At(i, 1-int(y[i])))
		assert.LessOrEqual(t, scores.At(i, 0), 0.0)
	}
}

func TestNearestCentroidNotFitted(t *testing.T) {
	t.Parallel()

	m := NewNearestCentroid()
	X, _ := twoBlobs()

	_, err := m.Predict(X)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ml.ErrNotFitted))
}

func TestNearestCentroidDimensionChecks(t *testing.T) {
	t.Parallel()

	X, y := twoBlobs()
	m := NewNearestCentroid()

	err := m.Fit(X, y[:3], nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ml.ErrDimensionMismatch))

	require.NoError(t, m.Fit(X, y, nil))
	_, err = m.Predict(mat.NewDense(1, 5, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ml.ErrDimensionMismatch))
}
