package mcperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// UpstreamError is the fault shape raised by the fetch collaborator for
// non-success upstream responses.
type UpstreamError struct {
	StatusCode int
	Code       string
	Details    any
	RetryAfter int // seconds, from Retry-After when present
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream error %d (%s)", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("upstream error %d", e.StatusCode)
}

// Classify maps an arbitrary fault plus request context into a normalized
// Error. It never mutates shared state and is safe for concurrent use.
//
// Already-classified errors pass through unchanged, except an upstream 404
// with a known resource id, which is rewrapped as resource_not_found with a
// "<Resource> '<id>' not found" message.
func Classify(err error, resourceName, resourceID string) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		if classified.HTTPStatus == 404 && resourceID != "" && classified.Kind != KindResourceNotFound {
			return notFound(resourceName, resourceID, err)
		}
		return classified
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		switch {
		case upstream.StatusCode == 404 && resourceID != "":
			return notFound(resourceName, resourceID, err)
		case upstream.StatusCode == 429:
			return &Error{
				Kind:         KindRateLimitExceeded,
				HTTPStatus:   429,
				Message:      "Rate limit exceeded",
				ResourceName: resourceName,
				ResourceID:   resourceID,
				Details:      map[string]any{"retryAfterSeconds": upstream.RetryAfter},
				Err:          err,
			}
		}
	}

	if errors.Is(err, context.Canceled) {
		return &Error{
			Kind:         KindRequestAborted,
			HTTPStatus:   499,
			Message:      "Request aborted by client",
			ResourceName: resourceName,
			ResourceID:   resourceID,
			Err:          err,
		}
	}

	if isTimeout(err) {
		return &Error{
			Kind:         KindRequestTimeout,
			HTTPStatus:   504,
			Message:      "Upstream request timed out",
			ResourceName: resourceName,
			ResourceID:   resourceID,
			Err:          err,
		}
	}

	if isNetworkFault(err) {
		return &Error{
			Kind:         KindNetworkError,
			HTTPStatus:   503,
			Message:      "Upstream service unreachable",
			ResourceName: resourceName,
			ResourceID:   resourceID,
			Err:          err,
		}
	}

	return &Error{
		Kind:         KindUnexpectedError,
		HTTPStatus:   500,
		Message:      fmt.Sprintf("Unexpected error: %v", err),
		ResourceName: resourceName,
		ResourceID:   resourceID,
		Err:          err,
	}
}

func notFound(resourceName, resourceID string, err error) *Error {
	return &Error{
		Kind:         KindResourceNotFound,
		HTTPStatus:   404,
		Message:      fmt.Sprintf("%s '%s' not found", resourceName, resourceID),
		ResourceName: resourceName,
		ResourceID:   resourceID,
		Err:          err,
	}
}

// isTimeout reports whether the fault is a deadline or I/O timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isNetworkFault reports whether the fault is a name-resolution or
// connection-level failure.
func isNetworkFault(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
