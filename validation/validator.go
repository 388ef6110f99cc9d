package validation

import (
	"unicode/utf8"

	"github.com/kbukum/authapi/errors"
)

// FieldError represents a validation error for a specific field.
type FieldError = errors.FieldError

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError carrying every collected field error, or nil.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	fields := make([]FieldError, len(v.errors))
	copy(fields, v.errors)
	return errors.Validation(fields)
}

// Required checks that value is non-empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if value == "" {
		v.AddError(field, message)
	}
	return v
}

// Email checks that value is a well-formed email address.
func (v *Validator) Email(field, value, message string) *Validator {
	if getValidator().Var(value, "required,email") != nil {
		v.AddError(field, message)
	}
	return v
}

// Length checks that value has between minLen and maxLen characters inclusive.
func (v *Validator) Length(field, value string, minLen, maxLen int, message string) *Validator {
	n := utf8.RuneCountInString(value)
	if n < minLen || n > maxLen {
		v.AddError(field, message)
	}
	return v
}

// MaxLength checks that value has at most maxLen characters.
func (v *Validator) MaxLength(field, value string, maxLen int, message string) *Validator {
	if utf8.RuneCountInString(value) > maxLen {
		v.AddError(field, message)
	}
	return v
}

// Reject records message when match reports true for value.
func (v *Validator) Reject(field, value string, match func(string) bool, message string) *Validator {
	if match(value) {
		v.AddError(field, message)
	}
	return v
}

// Equal checks that value equals other.
func (v *Validator) Equal(field, value, other, message string) *Validator {
	if value != other {
		v.AddError(field, message)
	}
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}
