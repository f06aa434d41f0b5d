package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/mlpipe/pkg/ml/model"
	"github.com/ib-77/mlpipe/pkg/ml/preprocess"
)

type alpha struct{}

type beta struct{}

func stepNames(steps []Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func TestNameStepsDuplicateSuffixes(t *testing.T) {
	t.Parallel()

	steps := NameSteps(alpha{}, alpha{}, beta{})
	assert.Equal(t, []string{"alpha-2", "alpha-1", "beta"}, stepNames(steps))
	// order of the estimators themselves is preserved
	assert.IsType(t, alpha{}, steps[0].Estimator)
	assert.IsType(t, beta{}, steps[2].Estimator)
}

func TestNameStepsTriples(t *testing.T) {
	t.Parallel()

	steps := NameSteps(alpha{}, beta{}, alpha{}, alpha{})
	assert.Equal(t, []string{"alpha-3", "beta", "alpha-2", "alpha-1"}, stepNames(steps))
}

func TestNameStepsDereferencesPointers(t *testing.T) {
	t.Parallel()

	steps := NameSteps(&alpha{}, beta{})
	assert.Equal(t, []string{"alpha", "beta"}, stepNames(steps))
}

func TestMakeAutoNamedPipeline(t *testing.T) {
	t.Parallel()

	p, err := Make(preprocess.NewStandardScaler(), model.NewNearestCentroid())
	require.NoError(t, err)
	assert.Equal(t, []string{"standardscaler", "nearestcentroid"}, stepNames(p.Steps()))
}

func TestMakeRejectsInvalidSteps(t *testing.T) {
	t.Parallel()

	// a fit-only estimator cannot be an intermediate step
	_, err := Make(&fitOnly{}, &fitOnly{})
	require.Error(t, err)
}
