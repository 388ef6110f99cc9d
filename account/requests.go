package account

import (
	"encoding/json"

	"github.com/kbukum/authapi/util"
	"github.com/kbukum/authapi/validation"
)

// Field limits.
const (
	MaxEmailLength    = 100
	MinNameLength     = 2
	MaxNameLength     = 100
	MinPasswordLength = 6
	MaxPasswordLength = 500
)

// RegisterRequest is the JSON body of POST /register.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"rePassword"`
}

// Sanitize strips markup from every field.
func (r *RegisterRequest) Sanitize() {
	r.Name = util.Sanitize(r.Name)
	r.Email = util.Sanitize(r.Email)
	r.Password = util.Sanitize(r.Password)
	r.RePassword = util.Sanitize(r.RePassword)
}

// Validate checks every rule and returns all failures at once. A well-formed
// email is replaced by its normalized form.
func (r *RegisterRequest) Validate() error {
	v := validation.New()

	validateEmail(v, &r.Email)

	v.Length("name", r.Name, MinNameLength, MaxNameLength, "name is required and must be at least 2 characters").
		Reject("name", r.Name, util.ContainsMarkup, "name contains unsafe characters")

	v.Length("password", r.Password, MinPasswordLength, MaxPasswordLength, "password must be 6 or more characters").
		Reject("password", r.Password, util.ContainsSQLKeyword, "password contains unsafe characters")

	v.Required("rePassword", r.RePassword, "password confirmation is required").
		Reject("rePassword", r.RePassword, util.ContainsSQLKeyword, "password confirmation contains unsafe characters")
	if r.RePassword != "" {
		v.Equal("rePassword", r.RePassword, r.Password, "passwords do not match")
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// LoginRequest is the JSON body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// passwordSet records that the body carried a password key, even an
	// empty one.
	passwordSet bool
}

// UnmarshalJSON decodes the body and notes whether a password was sent.
// A null password counts as not sent.
func (r *LoginRequest) UnmarshalJSON(data []byte) error {
	type fields LoginRequest
	var body struct {
		fields
		Password *string `json:"password"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*r = LoginRequest(body.fields)
	if body.Password != nil {
		r.Password = *body.Password
		r.passwordSet = true
	}
	return nil
}

// Sanitize strips markup from every field.
func (r *LoginRequest) Sanitize() {
	r.Email = util.Sanitize(r.Email)
	r.Password = util.Sanitize(r.Password)
}

// Validate checks every rule and returns all failures at once. A well-formed
// email is replaced by its normalized form. A password key that was sent
// empty passes and fails later as wrong credentials.
func (r *LoginRequest) Validate() error {
	v := validation.New()

	validateEmail(v, &r.Email)

	if !r.passwordSet {
		v.Required("password", r.Password, "password is required")
	}
	v.Reject("password", r.Password, util.ContainsSQLKeyword, "password contains unsafe characters")

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func validateEmail(v *validation.Validator, email *string) {
	before := len(v.Errors())
	v.Email("email", *email, "please include a valid email")
	if len(v.Errors()) == before {
		*email = util.NormalizeEmail(*email)
	}
	v.Reject("email", *email, util.ContainsMarkup, "email contains unsafe characters").
		MaxLength("email", *email, MaxEmailLength, "email is too long")
}
