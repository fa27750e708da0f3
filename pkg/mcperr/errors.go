// Package mcperr defines the normalized error shape surfaced by the
// resource pipeline and the classifier that produces it.
package mcperr

import "fmt"

// Kind identifies a class of resource-access failure.
type Kind string

const (
	// KindInvalidParameters indicates the request parameters failed schema
	// validation.
	KindInvalidParameters Kind = "invalid_parameters"

	// KindMissingParameter indicates a required URI parameter was absent.
	KindMissingParameter Kind = "missing_parameter"

	// KindResourceNotFound indicates the upstream service has no such
	// resource.
	KindResourceNotFound Kind = "resource_not_found"

	// KindValidationError indicates the upstream response failed schema
	// validation.
	KindValidationError Kind = "validation_error"

	// KindRequestAborted indicates the caller cancelled the request.
	KindRequestAborted Kind = "request_aborted"

	// KindNetworkError indicates the upstream service was unreachable.
	KindNetworkError Kind = "network_error"

	// KindRequestTimeout indicates the upstream request timed out.
	KindRequestTimeout Kind = "request_timeout"

	// KindRateLimitExceeded indicates the upstream service rejected the
	// request due to rate limiting.
	KindRateLimitExceeded Kind = "rate_limit_exceeded"

	// KindUnexpectedError is the fallback classification.
	KindUnexpectedError Kind = "unexpected_error"
)

// HTTPStatus returns the HTTP status code associated with a kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidParameters, KindMissingParameter:
		return 400
	case KindResourceNotFound:
		return 404
	case KindRateLimitExceeded:
		return 429
	case KindValidationError:
		return 422
	case KindRequestAborted:
		return 499
	case KindNetworkError:
		return 503
	case KindRequestTimeout:
		return 504
	default:
		return 500
	}
}

// Error is the normalized fault shape produced by Classify. Pipeline code
// never constructs classified faults ad hoc; everything funnels through the
// classifier or the New helper.
type Error struct {
	Kind         Kind
	HTTPStatus   int
	Message      string
	ResourceName string
	ResourceID   string
	Details      any
	Err          error
}

// New creates a classified error for the given kind with the status code
// implied by the kind.
func New(kind Kind, resourceName, message string) *Error {
	return &Error{
		Kind:         kind,
		HTTPStatus:   kind.HTTPStatus(),
		Message:      message,
		ResourceName: resourceName,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %s: %v", e.Kind, e.HTTPStatus, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.HTTPStatus, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationIssue describes a single field-level schema violation.
type ValidationIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}
