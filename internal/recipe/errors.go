package recipe

import (
	"errors"
	"strings"
)

// Field names reported in validation failures.
const (
	FieldName         = "name"
	FieldAuthor       = "author"
	FieldIngredients  = "ingredients"
	FieldInstructions = "instructions"
	FieldCategory     = "category"
	FieldCookingTime  = "cooking_time"
	FieldDifficulty   = "difficulty"
)

var (
	ErrRequired        = errors.New("is required")
	ErrNoIngredients   = errors.New("add at least one ingredient")
	ErrNonPositiveTime = errors.New("must be a positive number of minutes")
)

// FieldError is one failed check.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// ValidationErrors is the full list of failed checks for one commit attempt.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	out := make([]error, len(v))
	for i, e := range v {
		out[i] = e
	}
	return out
}

// Has reports whether any failure concerns field.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field || strings.HasPrefix(e.Field, field+"[") {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) add(field string, err error) {
	*v = append(*v, &FieldError{Field: field, Err: err})
}

// IsValidationError reports whether err carries validation failures.
func IsValidationError(err error) bool {
	var v ValidationErrors
	return errors.As(err, &v)
}
