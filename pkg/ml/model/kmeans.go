package model

import (
	kmeans "github.com/bugra/kmeans"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ib-77/mlpipe/pkg/ml"
)

// KMeans clusters rows into K groups using the bugra/kmeans backend and
// keeps the resulting centroids so new rows can be assigned afterwards.
// Cluster ids are returned as float64 labels.
//
// Fit parameters: "k" (int), "threshold" (int, backend iteration bound).
type KMeans struct {
	K         int
	Threshold int

	centroids *mat.Dense
}

// NewKMeans returns an unfitted clusterer with the given cluster count.
func NewKMeans(k int) *KMeans {
	return &KMeans{K: k, Threshold: 10}
}

// FitPredict clusters X and returns the cluster id of every row. Labels
// are ignored; clustering is unsupervised.
func (m *KMeans) FitPredict(X mat.Matrix, _ []float64, params ml.Params) ([]float64, error) {
	k := params.Int("k", m.K)
	threshold := params.Int("threshold", m.Threshold)
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(ml.ErrDimensionMismatch, "kmeans: empty input")
	}
	if k < 1 || k > r {
		return nil, errors.Wrapf(ml.ErrDimensionMismatch, "kmeans: k=%d with %d rows", k, r)
	}

	data := make([][]float64, r)
	for i := 0; i < r; i++ {
		data[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			data[i][j] = X.At(i, j)
		}
	}
	assignments, err := kmeans.Kmeans(data, k, kmeans.EuclideanDistance, threshold)
	if err != nil {
		return nil, errors.Wrap(err, "kmeans")
	}

	centroids := mat.NewDense(k, c, nil)
	sizes := make([]int, k)
	for i, a := range assignments {
		sizes[a]++
		for j := 0; j < c; j++ {
			centroids.Set(a, j, centroids.At(a, j)+data[i][j])
		}
	}
	for a := 0; a < k; a++ {
		if sizes[a] == 0 {
			continue
		}
		for j := 0; j < c; j++ {
			centroids.Set(a, j, centroids.At(a, j)/float64(sizes[a]))
		}
	}
	m.K = k
	m.Threshold = threshold
	m.centroids = centroids

	labels := make([]float64, r)
	for i, a := range assignments {
		labels[i] = float64(a)
	}
	return labels, nil
}

// Fit clusters X and keeps only the centroids.
func (m *KMeans) Fit(X mat.Matrix, y []float64, params ml.Params) error {
	_, err := m.FitPredict(X, y, params)
	return err
}

// Predict assigns each row to the nearest fitted centroid.
func (m *KMeans) Predict(X mat.Matrix) ([]float64, error) {
	if m.centroids == nil {
		return nil, errors.Wrap(ml.ErrNotFitted, "kmeans")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.Wrap(ml.ErrDimensionMismatch, "kmeans: empty input")
	}
	k, fc := m.centroids.Dims()
	if c != fc {
		return nil, errors.Wrapf(ml.ErrDimensionMismatch, "kmeans: want %d columns, got %d", fc, c)
	}
	out := make([]float64, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		best, bestDist := 0, floats.Distance(row, m.centroids.RawRowView(0), 2)
		for a := 1; a < k; a++ {
			if d := floats.Distance(row, m.centroids.RawRowView(a), 2); d < bestDist {
				best, bestDist = a, d
			}
		}
		out[i] = float64(best)
	}
	return out, nil
}
