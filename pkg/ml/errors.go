package ml

import "github.com/pkg/errors"

// Sentinel errors shared across the module. Call sites wrap them with step
// and type context; callers match with errors.Is.
var (
	// ErrEmptyStepName and ErrDuplicateStepName are configuration errors
	// raised at pipeline construction.
	ErrEmptyStepName     = errors.New("empty step name")
	ErrDuplicateStepName = errors.New("duplicate step name")

	// ErrInvalidStep marks an intermediate step without a fit-like plus
	// transform-or-sample-like capability set.
	ErrInvalidStep = errors.New("intermediate step must fit and transform or sample")

	// ErrInvalidFinalStep marks a final step without a fit-like capability.
	ErrInvalidFinalStep = errors.New("final step must support fitting")

	// ErrNotSupported is returned when an operation is requested from a
	// step that does not expose the matching capability.
	ErrNotSupported = errors.New("operation not supported by step")

	// ErrBadParamKey marks a flat parameter key without the "__" step
	// separator.
	ErrBadParamKey = errors.New("parameter key missing step separator")

	// ErrUnknownStep marks fit parameters addressed to a step name not
	// present in the pipeline.
	ErrUnknownStep = errors.New("unknown step name")

	// ErrNotFitted is returned when inference is attempted before fit.
	ErrNotFitted = errors.New("not fitted")

	// ErrDimensionMismatch marks inputs whose shapes disagree with each
	// other or with fitted state.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
