package application

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrEmailTaken is returned when registration hits an already registered email.
	ErrEmailTaken = errors.New("application: email already registered")
	// ErrUnknownEmail is returned when login references an unregistered email.
	ErrUnknownEmail = errors.New("application: unknown email")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAlreadyInvited is returned when a calendar invitation already exists
	// for the invitee, whatever its status.
	ErrAlreadyInvited = errors.New("application: already invited")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// requireFields records a "required" entry for every named field whose value
// is empty.
func (v *ValidationError) requireFields(fields map[string]string) {
	for field, value := range fields {
		if value == "" {
			v.add(field, "required")
		}
	}
}
