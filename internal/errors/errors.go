package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Services wrap these with fmt.Errorf("%w: ...") and the API layer uses
// errors.Is() to map them onto HTTP responses, so no service needs to know
// about status codes.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that a request body failed to parse or failed
	// the schema rules declared on its DTO.
	// Mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrNotConfigured signifies that the upstream provider credential is
	// missing. It is detected before any upstream call is attempted.
	// Mapped to a 500 Internal Server Error HTTP status.
	ErrNotConfigured = errors.New("ANTHROPIC_API_KEY not configured")

	// ErrUpstream signifies that the upstream provider failed while a turn was
	// being generated. Once a stream is open it is reported in-band.
	ErrUpstream = errors.New("upstream provider error")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	// Mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
