package model

import "fmt"

// DuplicateModelError is returned when a model name is already registered.
type DuplicateModelError struct {
	Model string
}

func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("model %q is already defined", e.Model)
}

// DuplicateFieldError is returned when a field name is declared twice on the
// same model, or collides with the injected identity column.
type DuplicateFieldError struct {
	Model string
	Field string
}

func (e *DuplicateFieldError) Error() string {
	if e.Field == IdentityColumn {
		return fmt.Sprintf("model %q: field %q collides with the identity column", e.Model, e.Field)
	}
	return fmt.Sprintf("model %q: field %q is declared more than once", e.Model, e.Field)
}
