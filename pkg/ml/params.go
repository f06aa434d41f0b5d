package ml

import (
	"strings"

	"github.com/pkg/errors"
)

// ParamSeparator joins a step name and a parameter name in flat keys.
const ParamSeparator = "__"

// Params holds the fit parameters of a single step. Estimators read the
// keys they understand through the typed getters and ignore the rest.
type Params map[string]any

// Grouped maps step names to their fit parameters.
type Grouped map[string]Params

// SplitParams parses flat "stepname__paramname" keys into per-step groups.
// A key without the separator is malformed and aborts the split.
func SplitParams(flat map[string]any) (Grouped, error) {
	g := make(Grouped, len(flat))
	for k, v := range flat {
		name, param, ok := strings.Cut(k, ParamSeparator)
		if !ok {
			return nil, errors.Wrapf(ErrBadParamKey, "%q", k)
		}
		if g[name] == nil {
			g[name] = make(Params)
		}
		g[name][param] = v
	}
	return g, nil
}

// Bool returns the named parameter as a bool, or fallback when absent or
// of another type.
func (p Params) Bool(key string, fallback bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return fallback
}

// Int returns the named parameter as an int, converting float64 values.
func (p Params) Int(key string, fallback int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

// Float returns the named parameter as a float64, converting int values.
func (p Params) Float(key string, fallback float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

// String returns the named parameter as a string, or fallback.
func (p Params) String(key, fallback string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return fallback
}
