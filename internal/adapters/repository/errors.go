package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	ErrUnavailable   = errors.New("score store unavailable")
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrClosed        = fmt.Errorf("%w: closed", ErrUnavailable)
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
