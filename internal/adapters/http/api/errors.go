package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrValidation = errors.New("validation error")
	ErrInternal   = errors.New("internal error")
)

// NewKind returns an error of the given kind tagged with the operation name.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// Wrap tags err with the operation name.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind tags err with the operation name and a kind, keeping both
// reachable through errors.Is.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
