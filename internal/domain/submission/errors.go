package submission

import "errors"

// Sentinel kinds for submission errors. Both wrap ErrValidation.
var (
	ErrValidation    = errors.New("validation failed")
	ErrMalformedBody = errors.New("body must be a JSON object")
	ErrInvalidTime   = errors.New("time_s must be a finite number")
)

type validationError struct {
	kind error
}

func (e *validationError) Error() string { return e.kind.Error() }

func (e *validationError) Is(target error) bool {
	return target == ErrValidation || target == e.kind
}
