// Package validation contains the pure field validators used by the auth
// forms. Each validator returns nil or exactly one field-scoped error.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minPasswordLen = 6
	minNameLen     = 2
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a validation failure scoped to a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Email validates an email address. The input is not trimmed here; callers
// normalize first (see NormalizeEmail).
func Email(email string) *FieldError {
	if email == "" {
		return &FieldError{Field: "email", Message: "Email is required"}
	}
	if !emailRe.MatchString(email) {
		return &FieldError{Field: "email", Message: "Invalid email format"}
	}
	return nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Password validates a password for presence and minimum length.
func Password(password string) *FieldError {
	if password == "" {
		return &FieldError{Field: "password", Message: "Password is required"}
	}
	if len(password) < minPasswordLen {
		return &FieldError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLen),
		}
	}
	return nil
}

// Name validates a display name.
func Name(name string) *FieldError {
	name = strings.TrimSpace(name)
	if name == "" {
		return &FieldError{Field: "name", Message: "Name is required"}
	}
	if len(name) < minNameLen {
		return &FieldError{
			Field:   "name",
			Message: fmt.Sprintf("Name must be at least %d characters", minNameLen),
		}
	}
	return nil
}

// ConfirmPassword checks that the confirmation matches.
func ConfirmPassword(password, confirm string) *FieldError {
	if confirm == "" {
		return &FieldError{Field: "confirmPassword", Message: "Confirm password is required"}
	}
	if confirm != password {
		return &FieldError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	return nil
}
