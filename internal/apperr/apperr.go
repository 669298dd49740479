package apperr

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoRatings signals a risk calculation with no fully rated factors.
	ErrNoRatings = errors.New("no factor ratings found for this assessment")
)

// AuthError is an ErrUnauthorized with a caller-visible reason.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string {
	return e.Msg
}

func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}

// Unauthorized builds an AuthError.
func Unauthorized(msg string) error {
	return &AuthError{Msg: msg}
}

// InvalidError is an ErrInvalidArgument with a caller-visible reason.
type InvalidError struct {
	Msg string
}

func (e *InvalidError) Error() string {
	return e.Msg
}

func (e *InvalidError) Unwrap() error {
	return ErrInvalidArgument
}

// Invalid builds an InvalidError.
func Invalid(msg string) error {
	return &InvalidError{Msg: msg}
}

// FieldErrors carries per-field validation messages keyed by field name.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	for field, msg := range fe {
		return field + ": " + msg
	}
	return "validation failed"
}

// HasErrors reports whether any field failed validation.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}
