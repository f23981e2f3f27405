// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer maps them to
// status codes through HTTPStatus.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates invalid caller input (malformed query, empty batch).
	KindValidation
	// KindConflict indicates a conflict with existing state (e.g., duplicate id).
	KindConflict
	// KindBadRequest indicates a request that could not be decoded.
	KindBadRequest
	// KindInternal indicates an unexpected internal error.
	KindInternal
	// KindUpstream indicates the record store was unreachable or answered
	// with a non-success status.
	KindUpstream
	// KindInvalidShape indicates the record store answered with a payload
	// that does not match the record collection contract.
	KindInvalidShape
	// KindPartialFailure indicates that some operations of a batch failed
	// while others were applied.
	KindPartialFailure
)

// String returns the external name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "Validation"
	case KindConflict:
		return "Conflict"
	case KindBadRequest:
		return "BadRequest"
	case KindInternal:
		return "Internal"
	case KindUpstream:
		return "UpstreamUnavailable"
	case KindInvalidShape:
		return "InvalidCollectionShape"
	case KindPartialFailure:
		return "PartialFailure"
	default:
		return "Unknown"
	}
}

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest, KindPartialFailure:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUpstream, KindInvalidShape:
		return http.StatusBadGateway
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation and returns the error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails sets additional response details and returns the error.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Conflict creates a conflict error (e.g., duplicate resource).
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// Upstream wraps a record store failure.
func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, message, err)
}

// InvalidShape wraps a record store payload that broke the collection contract.
func InvalidShape(message string, err error) *Error {
	return Wrap(KindInvalidShape, message, err)
}

// PartialFailure creates a batch failure error.
func PartialFailure(message string) *Error {
	return New(KindPartialFailure, message)
}

// GetKind extracts the error kind from an error chain.
// Returns KindUnknown if no *Error is found.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
