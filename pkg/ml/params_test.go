package ml

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitParams(t *testing.T) {
	t.Parallel()

	g, err := SplitParams(map[string]any{
		"scaler__with_mean": false,
		"scaler__with_std":  true,
		"sampler__ratio":    2.0,
	})
	require.NoError(t, err)

	assert.Len(t, g, 2)
	assert.Equal(t, Params{"with_mean": false, "with_std": true}, g["scaler"])
	assert.Equal(t, Params{"ratio": 2.0}, g["sampler"])
}

func TestSplitParamsMalformedKey(t *testing.T) {
	t.Parallel()

	_, err := SplitParams(map[string]any{"ratio": 2.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadParamKey))
}

func TestSplitParamsKeepsFirstSeparator(t *testing.T) {
	t.Parallel()

	// only the first separator splits; the rest belongs to the param name
	g, err := SplitParams(map[string]any{"step__nested__param": 1})
	require.NoError(t, err)
	assert.Equal(t, Params{"nested__param": 1}, g["step"])
}

func TestParamsGetters(t *testing.T) {
	t.Parallel()

	p := Params{
		"flag":  true,
		"k":     3,
		"ratio": 1.5,
		"name":  "x",
	}

	assert.True(t, p.Bool("flag", false))
	assert.False(t, p.Bool("missing", false))
	assert.Equal(t, 3, p.Int("k", 0))
	assert.Equal(t, 1, p.Int("missing", 1))
	assert.Equal(t, 1.5, p.Float("ratio", 0))
	assert.Equal(t, 3.0, p.Float("k", 0))
	assert.Equal(t, "x", p.String("name", ""))
	assert.Equal(t, "y", p.String("missing", "y"))

	var nilParams Params
	assert.True(t, nilParams.Bool("anything", true))
}
