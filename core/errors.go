package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the payload field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field failures out of payload Validate
// methods. The HTTP error handler renders Fields as a field-to-message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks a failure the process cannot work through, such as a
// corrupt database handle. The HTTP error handler checks IsShutdown and
// signals a graceful exit instead of serving more requests off the broken
// dependency.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string { return s.message }

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
