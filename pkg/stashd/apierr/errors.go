// Package apierr defines the error taxonomy shared by the engine and the
// HTTP boundary. Engine code returns these; the boundary translates them
// into the response envelope exactly once.
package apierr

import "errors"

var (
	// ErrUnauthenticated is returned when no valid session assertion is present.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrInvalidAPIToken is returned when an API access token matches no user.
	ErrInvalidAPIToken = errors.New("invalid API token")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized is returned when an entity exists but belongs to a
	// different owner.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInternal is returned for unexpected storage failures.
	ErrInternal = errors.New("internal error")
)

// ValidationError reports a malformed or semantically invalid input value
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError from a message
func Validation(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Code returns the stable machine-readable code for err
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrInvalidAPIToken):
		return "invalid_api_token"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case IsValidation(err):
		return "validation_error"
	default:
		return "internal_error"
	}
}
