package profile

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks input rejected because of its shape or format.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes which field was rejected and why.
type InputError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *InputError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidInput, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, msg)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// Is reports every InputError as ErrInvalidInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}
