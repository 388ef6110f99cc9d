// Package validation collects field-level validation failures.
//
// Request payloads are checked with the chaining Validator, which records one
// FieldError per failed rule in evaluation order and converts the result into
// a single *errors.AppError:
//
//	v := validation.New()
//	v.Email("email", email, "please include a valid email").
//	    MaxLength("email", email, 100, "email is too long")
//	if err := v.Validate(); err != nil {
//	    return err
//	}
//
// Configuration structs are checked with struct tags through Struct:
//
//	type Config struct {
//	    Secret string `validate:"required,min=16"`
//	}
//	err := validation.Struct(cfg)
package validation
