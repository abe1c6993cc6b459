package mapper

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a field value that fails its declared type, or a
// required field that is missing. The offending create or save issues no SQL.
type ValidationError struct {
	Model  string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model %q: field %q: %s", e.Model, e.Field, e.Reason)
}

// UnknownFieldError reports a supplied field that is not declared on the
// descriptor. The identity column is never supplied by callers and reports
// this error too.
type UnknownFieldError struct {
	Model string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("model %q has no field %q", e.Model, e.Field)
}

// StateError reports an operation that is invalid for the instance's
// current persistence state, such as deleting an unsaved instance.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s a %s instance", e.Op, e.State)
}
