package resample

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/ib-77/mlpipe/pkg/ml"
)

// RandomUnderSampler rebalances a dataset by dropping rows from the larger
// classes until no class exceeds Ratio times the minority count.
//
// Fit parameters: "ratio" (float64, default 1.0).
type RandomUnderSampler struct {
	Ratio float64

	rng    *rand.Rand
	counts map[float64]int
}

// NewRandomUnderSampler returns a sampler targeting fully balanced classes.
func NewRandomUnderSampler(seed int64) *RandomUnderSampler {
	return &RandomUnderSampler{Ratio: 1, rng: rand.New(rand.NewSource(seed))}
}

// Fit records the class distribution of y.
func (s *RandomUnderSampler) Fit(X mat.Matrix, y []float64, params ml.Params) error {
	if err := checkXY(X, y); err != nil {
		return errors.Wrap(err, "under sampler")
	}
	s.Ratio = params.Float("ratio", s.Ratio)
	if s.Ratio <= 0 {
		return errors.Wrap(ml.ErrDimensionMismatch, "under sampler: ratio must be positive")
	}
	s.counts = classCounts(y)
	return nil
}

// Sample drops rows of every class above the target count. Kept rows stay
// in their original order.
func (s *RandomUnderSampler) Sample(X mat.Matrix, y []float64) (mat.Matrix, []float64, error) {
	if s.counts == nil {
		return nil, nil, errors.Wrap(ml.ErrNotFitted, "under sampler")
	}
	if err := checkXY(X, y); err != nil {
		return nil, nil, errors.Wrap(err, "under sampler")
	}
	byClass, classes := classIndex(y)
	minority := len(byClass[classes[0]])
	for _, c := range classes {
		if n := len(byClass[c]); n < minority {
			minority = n
		}
	}
	target := int(s.Ratio * float64(minority))
	if target < 1 {
		target = 1
	}

	var keep []int
	for _, c := range classes {
		idx := byClass[c]
		if len(idx) <= target {
			keep = append(keep, idx...)
			continue
		}
		perm := s.rng.Perm(len(idx))
		for _, p := range perm[:target] {
			keep = append(keep, idx[p])
		}
	}
	sort.Ints(keep)
	Xs, ys := takeRows(X, y, keep)
	return Xs, ys, nil
}

// FitSample fits the sampler and resamples in one call.
func (s *RandomUnderSampler) FitSample(X mat.Matrix, y []float64, params ml.Params) (mat.Matrix, []float64, error) {
	if err := s.Fit(X, y, params); err != nil {
		return nil, nil, err
	}
	return s.Sample(X, y)
}

// RandomOverSampler rebalances a dataset by duplicating rows of the
// smaller classes until every class reaches Ratio times the majority
// count. Original rows always survive; duplicates are appended.
//
// Fit parameters: "ratio" (float64, default 1.0).
type RandomOverSampler struct {
	Ratio float64

	rng    *rand.Rand
	counts map[float64]int
}

// NewRandomOverSampler returns a sampler targeting fully balanced classes.
func NewRandomOverSampler(seed int64) *RandomOverSampler {
	return &RandomOverSampler{Ratio: 1, rng: rand.New(rand.NewSource(seed))}
}

// Fit records the class distribution of y.
func (s *RandomOverSampler) Fit(X mat.Matrix, y []float64, params ml.Params) error {
	if err := checkXY(X, y); err != nil {
		return errors.Wrap(err, "over sampler")
	}
	s.Ratio = params.Float("ratio", s.Ratio)
	if s.Ratio <= 0 {
		return errors.Wrap(ml.ErrDimensionMismatch, "over sampler: ratio must be positive")
	}
	s.counts = classCounts(y)
	return nil
}

// Sample appends randomly drawn duplicates of under-represented classes.
func (s *RandomOverSampler) Sample(X mat.Matrix, y []float64) (mat.Matrix, []float64, error) {
	if s.counts == nil {
		return nil, nil, errors.Wrap(ml.ErrNotFitted, "over sampler")
	}
	if err := checkXY(X, y); err != nil {
		return nil, nil, errors.Wrap(err, "over sampler")
	}
	byClass, classes := classIndex(y)
	majority := 0
	for _, c := range classes {
		if n := len(byClass[c]); n > majority {
			majority = n
		}
	}
	target := int(s.Ratio * float64(majority))

	keep := make([]int, len(y))
	for i := range keep {
		keep[i] = i
	}
	for _, c := range classes {
		idx := byClass[c]
		for n := len(idx); n < target; n++ {
			keep = append(keep, idx[s.rng.Intn(len(idx))])
		}
	}
	Xs, ys := takeRows(X, y, keep)
	return Xs, ys, nil
}

// FitSample fits the sampler and resamples in one call.
func (s *RandomOverSampler) FitSample(X mat.Matrix, y []float64, params ml.Params) (mat.Matrix, []float64, error) {
	if err := s.Fit(X, y, params); err != nil {
		return nil, nil, err
	}
	return s.Sample(X, y)
}

func checkXY(X mat.Matrix, y []float64) error {
	r, _ := X.Dims()
	if r == 0 {
		return errors.Wrap(ml.ErrDimensionMismatch, "empty input")
	}
	if r != len(y) {
		return errors.Wrapf(ml.ErrDimensionMismatch, "%d rows, %d labels", r, len(y))
	}
	return nil
}

func classCounts(y []float64) map[float64]int {
	counts := make(map[float64]int)
	for _, v := range y {
		counts[v]++
	}
	return counts
}

// classIndex groups row indices by label and returns the sorted label set
// so that draws are reproducible across runs.
func classIndex(y []float64) (map[float64][]int, []float64) {
	byClass := make(map[float64][]int)
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}
	classes := make([]float64, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Float64s(classes)
	return byClass, classes
}

func takeRows(X mat.Matrix, y []float64, idx []int) (*mat.Dense, []float64) {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	ys := make([]float64, len(idx))
	for i, row := range idx {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(row, j))
		}
		ys[i] = y[row]
	}
	return out, ys
}
