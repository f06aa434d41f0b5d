package model

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ib-77/mlpipe/pkg/ml"
)

// NearestCentroid classifies a row by the euclidean-closest class centroid
// learned during fit.
type NearestCentroid struct {
	classes   []float64
	centroids *mat.Dense
}

// NewNearestCentroid returns an unfitted classifier.
func NewNearestCentroid() *NearestCentroid {
	return &NearestCentroid{}
}

// Classes returns the fitted class labels in ascending order.
func (m *NearestCentroid) Classes() []float64 {
	return append([]float64(nil), m.classes...)
}

// Fit computes one centroid per class label present in y.
func (m *NearestCentroid) Fit(X mat.Matrix, y []float64, _ ml.Params) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(ml.ErrDimensionMismatch, "nearest centroid: empty input")
	}
	if r != len(y) {
		return errors.Wrapf(ml.ErrDimensionMismatch, "nearest centroid: %d rows, %d labels", r, len(y))
	}

	byClass := make(map[float64][]int)
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}
	classes := make([]float64, 0, len(byClass))
	for v := range byClass {
		classes = append(classes, v)
	}
	sort.Float64s(classes)

	centroids := mat.NewDense(len(classes), c, nil)
	for k, v := range classes {
		idx := byClass[v]
		for j := 0; j < c; j++ {
			sum := 0.0
			for _, i := range idx {
				sum += X.At(i, j)
			}
			centroids.Set(k, j, sum/float64(len(idx)))
		}
	}
	m.classes = classes
	m.centroids = centroids
	return nil
}

// DecisionFunction returns the negative euclidean distance from each row
// to each class centroid, one column per class.
func (m *NearestCentroid) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if m.centroids == nil {
		return nil, errors.Wrap(ml.ErrNotFitted, "nearest centroid")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.Wrap(ml.ErrDimensionMismatch, "nearest centroid: empty input")
	}
	if _, fc := m.centroids.Dims(); c != fc {
		return nil, errors.Wrapf(ml.ErrDimensionMismatch, "nearest centroid: want %d columns, got %d", fc, c)
	}
	out := mat.NewDense(r, len(m.classes), nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		for k := range m.classes {
			out.Set(i, k, -floats.Distance(row, m.centroids.RawRowView(k), 2))
		}
	}
	return out, nil
}

// Predict assigns each row the label of its closest centroid.
func (m *NearestCentroid) Predict(X mat.Matrix) ([]float64, error) {
	scores, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	r, _ := scores.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		best := 0
		for k := 1; k < len(m.classes); k++ {
			if scores.At(i, k) > scores.At(i, best) {
				best = k
			}
		}
		out[i] = m.classes[best]
	}
	return out, nil
}

// FitPredict fits on the input and returns its predicted labels.
func (m *NearestCentroid) FitPredict(X mat.Matrix, y []float64, params ml.Params) ([]float64, error) {
	if err := m.Fit(X, y, params); err != nil {
		return nil, err
	}
	return m.Predict(X)
}

// PredictProba returns a softmax over the decision scores, one column per
// class, each row summing to one.
func (m *NearestCentroid) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	r, k := scores.Dims()
	out := mat.NewDense(r, k, nil)
	row := make([]float64, k)
	for i := 0; i < r; i++ {
		mat.Row(row, i, scores)
		// shift by the row max for numerical stability
		shift := floats.Max(row)
		total := 0.0
		for j := range row {
			row[j] = math.Exp(row[j] - shift)
			total += row[j]
		}
		for j := range row {
			out.Set(i, j, row[j]/total)
		}
	}
	return out, nil
}

// PredictLogProba returns the elementwise log of PredictProba.
func (m *NearestCentroid) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	r, k := proba.Dims()
	out := mat.NewDense(r, k, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			out.Set(i, j, math.Log(proba.At(i, j)))
		}
	}
	return out, nil
}

// Score returns the mean accuracy of Predict against y.
func (m *NearestCentroid) Score(X mat.Matrix, y []float64) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(pred) != len(y) {
		return 0, errors.Wrapf(ml.ErrDimensionMismatch, "nearest centroid: %d predictions, %d labels", len(pred), len(y))
	}
	if len(y) == 0 {
		return 0, errors.Wrap(ml.ErrDimensionMismatch, "nearest centroid: empty input")
	}
	hits := 0
	for i, p := range pred {
		if p == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(y)), nil
}
