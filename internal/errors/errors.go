package errors

import (
	"errors"
	"fmt"
)

// This package defines the closed set of error kinds for the application.
// Services return these sentinels (or wrap them) instead of HTTP status
// codes; the API layer maps them to responses with errors.Is(). Keeping the
// taxonomy closed here replaces the loosely-typed error objects the system
// otherwise tends to grow.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized signifies a missing or invalid credential, or a
	// credential that resolves to an identity outside the allow-list. It is
	// always surfaced to the client as a uniform message with no detail.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformed signifies an unparseable request body. Surfaced as a
	// generic server error, never with specifics.
	ErrMalformed = errors.New("malformed request body")

	// ErrInternal signifies an unexpected error on the server. Generic by
	// design so implementation details never leak to the client.
	ErrInternal = errors.New("internal server error")
)

// UpstreamError reports a failure from the model gateway: the inference
// call raised, was rate-limited, or reported overload. It terminates the
// current stream but is never fatal to the process. Partial output already
// forwarded before the failure is not retracted.
type UpstreamError struct {
	Message string
	Code    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (%s): %s", e.Code, e.Message)
}
