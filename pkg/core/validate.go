package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a form field to the problem found with it.
type FieldErrors map[string]string

// Error lists the problems in field order.
func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, k := range fields {
		msgs = append(msgs, f[k])
	}
	return strings.Join(msgs, "; ")
}

func (f FieldErrors) Unwrap() error {
	return ErrValidation
}

func (f FieldErrors) orNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// Validate checks that both credentials were supplied.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.EmailOrUsername) == "" || c.Password == "" {
		return fmt.Errorf("%w: please fill in all fields", ErrValidation)
	}
	return nil
}

// Validate checks a registration form before it is submitted. confirm is
// the repeated password.
func (a NewAccount) Validate(confirm string) error {
	errs := FieldErrors{}

	switch username := strings.TrimSpace(a.Username); {
	case username == "":
		errs["username"] = "Username is required"
	case len(a.Username) < 3:
		errs["username"] = "Username must be at least 3 characters"
	}

	switch {
	case strings.TrimSpace(a.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(a.Email):
		errs["email"] = "Invalid email format"
	}

	switch {
	case a.Password == "":
		errs["password"] = "Password is required"
	case len(a.Password) < 6:
		errs["password"] = "Password must be at least 6 characters"
	}

	switch {
	case confirm == "":
		errs["confirmPassword"] = "Please confirm your password"
	case confirm != a.Password:
		errs["confirmPassword"] = "Passwords do not match"
	}

	return errs.orNil()
}
